// pkg/status/status_test.go
package status

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/opd-ai/go-asteroids/pkg/event"
)

func newTestManager(t *testing.T) (*Manager, *event.Bus) {
	t.Helper()
	events := event.NewEventBus()
	m := NewManager(events)
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return m, events
}

func TestApplyEffect_NilEventBus(t *testing.T) {
	m := NewManager(nil)
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 1.0, 0, StackAdditive); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}
	// Expiry also publishes; it must tolerate the missing bus.
	m.UpdateEffects(1.0)
	if got := len(m.ActiveEffects(1)); got != 0 {
		t.Errorf("active effects after expiry = %d, expected 0", got)
	}
}

func TestApplyEffect_AdditiveStacking(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 3.0, 0, StackAdditive); err != nil {
		t.Fatalf("first ApplyEffect() error: %v", err)
	}
	effect, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 3.0, 0, StackAdditive)
	if err != nil {
		t.Fatalf("second ApplyEffect() error: %v", err)
	}

	if effect.Magnitude != 1.0 {
		t.Errorf("Magnitude = %v, expected 1.0", effect.Magnitude)
	}
	if effect.Duration != 6.0 || effect.Remaining != 6.0 {
		t.Errorf("Duration/Remaining = %v/%v, expected 6.0/6.0", effect.Duration, effect.Remaining)
	}
	if got := len(m.ActiveEffects(1)); got != 1 {
		t.Errorf("active effects = %d, expected a single merged record", got)
	}
}

func TestApplyEffect_MultiplicativeStacking(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.ApplyEffect(1, "haste", Buff, 2.0, 1.0, 0, StackMultiplicative); err != nil {
		t.Fatalf("first ApplyEffect() error: %v", err)
	}
	effect, err := m.ApplyEffect(1, "haste", Buff, 3.0, 1.5, 0, StackMultiplicative)
	if err != nil {
		t.Fatalf("second ApplyEffect() error: %v", err)
	}

	if effect.Magnitude != 6.0 {
		t.Errorf("Magnitude = %v, expected 6.0", effect.Magnitude)
	}
	if effect.Duration != 2.5 {
		t.Errorf("Duration = %v, expected 2.5", effect.Duration)
	}
}

func TestApplyEffect_IgnoreRejectsSecond(t *testing.T) {
	m, _ := newTestManager(t)

	first, err := m.ApplyEffect(1, "shield", Buff, 1.0, 5.0, 0, Ignore)
	if err != nil {
		t.Fatalf("first ApplyEffect() error: %v", err)
	}
	second, err := m.ApplyEffect(1, "shield", Buff, 9.0, 9.0, 0, Ignore)
	if !errors.Is(err, ErrEffectRejected) {
		t.Fatalf("second ApplyEffect() error = %v, expected ErrEffectRejected", err)
	}

	if second != first {
		t.Error("rejected application did not return the existing effect")
	}
	if got := m.EffectMagnitude(1, "shield"); got != 1.0 {
		t.Errorf("EffectMagnitude = %v, expected untouched 1.0", got)
	}
}

func TestApplyEffect_ReplaceInstallsFresh(t *testing.T) {
	m, _ := newTestManager(t)

	first, err := m.ApplyEffect(1, "burn", DamageOverTime, 2.0, 1.0, 7, Replace)
	if err != nil {
		t.Fatalf("first ApplyEffect() error: %v", err)
	}
	second, err := m.ApplyEffect(1, "burn", DamageOverTime, 5.0, 4.0, 8, Replace)
	if err != nil {
		t.Fatalf("second ApplyEffect() error: %v", err)
	}

	if second.ID == first.ID {
		t.Error("replacement kept the old effect identity")
	}
	if second.Magnitude != 5.0 || second.Duration != 4.0 || second.SourceID != 8 {
		t.Errorf("replacement = %+v", second)
	}
	if got := len(m.ActiveEffects(1)); got != 1 {
		t.Errorf("active effects = %d, expected 1", got)
	}
}

func TestApplyEffect_ValidationRejected(t *testing.T) {
	m, _ := newTestManager(t)

	tests := []struct {
		name      string
		magnitude float64
		duration  float64
	}{
		{"nan_magnitude", math.NaN(), 1.0},
		{"excessive_magnitude", 1e6, 1.0},
		{"negative_duration", 1.0, -1.0},
		{"excessive_duration", 1.0, 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ApplyEffect(1, "bad", Buff, tt.magnitude, tt.duration, 0, Replace); err == nil {
				t.Error("ApplyEffect() accepted an invalid effect")
			}
		})
	}
}

func TestUpdateEffects_ExpiryAtZero(t *testing.T) {
	m, events := newTestManager(t)

	var expiredEvents atomic.Int32
	events.Subscribe(event.EffectExpired, func(e event.Event) {
		expiredEvents.Add(1)
	})

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 1.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}

	if expired := m.UpdateEffects(0.5); len(expired) != 0 {
		t.Fatalf("expired after 0.5s = %d, expected 0", len(expired))
	}
	expired := m.UpdateEffects(0.5)
	if len(expired) != 1 || expired[0].Name != "slow" {
		t.Fatalf("expired after 1.0s = %+v, expected the slow debuff", expired)
	}

	if m.HasEffect(1, "slow") {
		t.Error("expired effect still reported active")
	}
	if got := expiredEvents.Load(); got != 1 {
		t.Errorf("expiry events = %d, expected 1", got)
	}

	counters := m.Status()
	if counters.Active != 0 || counters.Applied != 1 || counters.Expired != 1 {
		t.Errorf("counters = %+v", counters)
	}
}

func TestHasEffectAndMagnitude(t *testing.T) {
	m, _ := newTestManager(t)

	if m.HasEffect(1, "slow") {
		t.Error("HasEffect() true on empty manager")
	}
	if got := m.EffectMagnitude(1, "slow"); got != 0 {
		t.Errorf("EffectMagnitude = %v on empty manager, expected 0", got)
	}

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 3.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}
	if !m.HasEffect(1, "slow") {
		t.Error("HasEffect() false after application")
	}
	if got := m.EffectMagnitude(1, "slow"); got != 0.5 {
		t.Errorf("EffectMagnitude = %v, expected 0.5", got)
	}
}

func TestRemoveEffect(t *testing.T) {
	m, _ := newTestManager(t)

	if err := m.RemoveEffect(1, "slow"); !errors.Is(err, ErrEffectNotFound) {
		t.Errorf("RemoveEffect() on empty manager error = %v, expected ErrEffectNotFound", err)
	}

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 3.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}
	if err := m.RemoveEffect(1, "slow"); err != nil {
		t.Fatalf("RemoveEffect() error: %v", err)
	}
	if m.HasEffect(1, "slow") {
		t.Error("effect still active after removal")
	}
	if err := m.RemoveEffect(1, "slow"); !errors.Is(err, ErrEffectNotFound) {
		t.Errorf("double RemoveEffect() error = %v, expected ErrEffectNotFound", err)
	}
}

func TestClearEffects(t *testing.T) {
	m, _ := newTestManager(t)

	for _, name := range []string{"slow", "burn", "shield"} {
		if _, err := m.ApplyEffect(1, name, Debuff, 1.0, 3.0, 0, Replace); err != nil {
			t.Fatalf("ApplyEffect(%q) error: %v", name, err)
		}
	}
	if _, err := m.ApplyEffect(2, "slow", Debuff, 1.0, 3.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}

	if cleared := m.ClearEffects(1); cleared != 3 {
		t.Errorf("ClearEffects(1) = %d, expected 3", cleared)
	}
	if len(m.ActiveEffects(1)) != 0 {
		t.Error("entity 1 still carries effects after clear")
	}
	if !m.HasEffect(2, "slow") {
		t.Error("clear on entity 1 touched entity 2")
	}
	if cleared := m.ClearEffects(99); cleared != 0 {
		t.Errorf("ClearEffects(99) = %d, expected 0", cleared)
	}
}

func TestClearEffectsByType(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 3.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}
	if _, err := m.ApplyEffect(1, "burn", DamageOverTime, 2.0, 3.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}
	if _, err := m.ApplyEffect(1, "haste", Buff, 2.0, 3.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}

	if cleared := m.ClearEffectsByType(1, Debuff); cleared != 1 {
		t.Errorf("ClearEffectsByType(Debuff) = %d, expected 1", cleared)
	}
	if m.HasEffect(1, "slow") {
		t.Error("debuff survived a clear by type")
	}
	if !m.HasEffect(1, "burn") || !m.HasEffect(1, "haste") {
		t.Error("clear by type removed effects of other types")
	}

	counts := m.CountByType(1)
	if counts[DamageOverTime] != 1 || counts[Buff] != 1 || counts[Debuff] != 0 {
		t.Errorf("CountByType = %v", counts)
	}
}

func TestRemainingRatio(t *testing.T) {
	m, _ := newTestManager(t)

	if got := m.RemainingRatio(1, "slow"); got != 0 {
		t.Errorf("RemainingRatio on empty manager = %v, expected 0", got)
	}

	if _, err := m.ApplyEffect(1, "slow", Debuff, 0.5, 4.0, 0, Replace); err != nil {
		t.Fatalf("ApplyEffect() error: %v", err)
	}
	if got := m.RemainingRatio(1, "slow"); got != 1.0 {
		t.Errorf("RemainingRatio after apply = %v, expected 1.0", got)
	}

	m.UpdateEffects(1.0)
	if got := m.RemainingRatio(1, "slow"); got != 0.75 {
		t.Errorf("RemainingRatio after 1s of 4s = %v, expected 0.75", got)
	}
}

func TestDo(t *testing.T) {
	m, _ := newTestManager(t)

	result, err := m.Do(ApplyCommand{
		EntityID:  1,
		Name:      "slow",
		Type:      Debuff,
		Magnitude: 0.5,
		Duration:  3.0,
		Mode:      StackAdditive,
	})
	if err != nil {
		t.Fatalf("Do(ApplyCommand) error: %v", err)
	}
	if effect, ok := result.(*Effect); !ok || effect.Name != "slow" {
		t.Errorf("Do(ApplyCommand) = %+v", result)
	}

	result, err = m.Do(QueryCommand{EntityID: 1})
	if err != nil {
		t.Fatalf("Do(QueryCommand) error: %v", err)
	}
	if effects, ok := result.([]*Effect); !ok || len(effects) != 1 {
		t.Errorf("Do(QueryCommand) = %+v", result)
	}

	if _, err := m.Do(RemoveCommand{EntityID: 1, Name: "slow"}); err != nil {
		t.Fatalf("Do(RemoveCommand) error: %v", err)
	}

	if _, err := m.Do(nil); err == nil {
		t.Error("Do(nil) expected unknown-action error")
	}
}
