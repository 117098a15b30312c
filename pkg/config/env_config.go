// pkg/config/env_config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvironmentConfig contains deployment-level settings loaded from
// environment variables. File-based SimConfig covers gameplay tuning;
// this covers everything around it.
type EnvironmentConfig struct {
	LogLevel     string `env:"ASTEROIDS_LOG_LEVEL" envDefault:"INFO"`
	RandomSeed   uint64 `env:"ASTEROIDS_RANDOM_SEED" envDefault:"0"`
	TelemetryDir string `env:"ASTEROIDS_TELEMETRY_DIR" envDefault:""`

	// Collision handler circuit breaker tuning
	BreakerMaxRequests         uint32        `env:"ASTEROIDS_BREAKER_MAX_REQUESTS" envDefault:"1"`
	BreakerInterval            time.Duration `env:"ASTEROIDS_BREAKER_INTERVAL" envDefault:"10s"`
	BreakerTimeout             time.Duration `env:"ASTEROIDS_BREAKER_TIMEOUT" envDefault:"5s"`
	BreakerMaxConsecutiveFails uint32        `env:"ASTEROIDS_BREAKER_MAX_CONSECUTIVE_FAILS" envDefault:"3"`
}

// LoadConfigFromEnv parses the environment into an EnvironmentConfig.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}
