// pkg/logging/logger_test.go
package logging

import (
	"context"
	"errors"
	"testing"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc123")
	if got := GetCorrelationID(ctx); got != "abc123" {
		t.Errorf("GetCorrelationID() = %q, expected abc123", got)
	}
}

func TestWithCorrelationID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	if got := GetCorrelationID(ctx); got == "" {
		t.Error("empty correlation ID was not replaced with a generated one")
	}
}

func TestGetCorrelationID_AbsentReturnsEmpty(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("GetCorrelationID() on bare context = %q, expected empty", got)
	}
}

func TestGenerateCorrelationID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateCorrelationID()
		if len(id) != 16 {
			t.Fatalf("correlation ID %q has length %d, expected 16 hex chars", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate correlation ID %q", id)
		}
		seen[id] = true
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("boom")

	wrapped := WrapError(base, "loading wave %d", 3)
	if wrapped == nil || !errors.Is(wrapped, base) {
		t.Fatalf("WrapError() = %v, expected a wrapper around the base error", wrapped)
	}
	if wrapped.Error() != "loading wave 3: boom" {
		t.Errorf("wrapped message = %q", wrapped.Error())
	}

	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) expected nil")
	}
}

func TestLoggerMethodsDoNotPanic(t *testing.T) {
	logger := NewLogger()
	ctx := WithCorrelationID(context.Background(), "test")

	logger.Info(ctx, "info message", "key", "value")
	logger.Warn(ctx, "warn message")
	logger.Debug(ctx, "debug message")
	logger.Error(ctx, "error message", errors.New("boom"), "key", "value")
	logger.Error(ctx, "error message without error", nil)
}
