package collision

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/logging"
)

// breakerSettings tunes the per-pair handler circuit breakers.
type breakerSettings struct {
	maxRequests         uint32
	interval            time.Duration
	timeout             time.Duration
	maxConsecutiveFails uint32
}

func breakerSettingsFrom(envCfg *config.EnvironmentConfig) breakerSettings {
	if envCfg == nil {
		return breakerSettings{
			maxRequests:         1,
			interval:            10 * time.Second,
			timeout:             5 * time.Second,
			maxConsecutiveFails: 3,
		}
	}
	return breakerSettings{
		maxRequests:         envCfg.BreakerMaxRequests,
		interval:            envCfg.BreakerInterval,
		timeout:             envCfg.BreakerTimeout,
		maxConsecutiveFails: envCfg.BreakerMaxConsecutiveFails,
	}
}

// guardedHandler wraps a collision handler with panic recovery and a
// circuit breaker. A handler that keeps failing gets its breaker tripped
// and is skipped until the breaker's timeout elapses; detection and the
// other handlers continue unaffected.
type guardedHandler struct {
	handler Handler
	breaker *gobreaker.CircuitBreaker
}

func newGuardedHandler(name string, handler Handler, settings breakerSettings) *guardedHandler {
	logger := logging.NewLogger()

	return &guardedHandler{
		handler: handler,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: settings.maxRequests,
			Interval:    settings.interval,
			Timeout:     settings.timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= settings.maxConsecutiveFails
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info(context.Background(), "collision handler breaker state changed",
					"handler", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}),
	}
}

// handle runs the wrapped handler through the breaker, converting panics
// into errors so one misbehaving handler cannot abort the frame.
func (g *guardedHandler) handle(info Info) error {
	_, err := g.breaker.Execute(func() (result interface{}, execErr error) {
		defer func() {
			if r := recover(); r != nil {
				execErr = fmt.Errorf("collision handler panicked: %v", r)
			}
		}()
		return nil, g.handler(info)
	})
	if err != nil {
		return fmt.Errorf("collision handler: %w", err)
	}
	return nil
}

func (g *guardedHandler) state() gobreaker.State {
	return g.breaker.State()
}
