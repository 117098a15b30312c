// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimConfig contains configuration for the simulation core
type SimConfig struct {
	FieldWidth       float64          `json:"fieldWidth"`
	FieldHeight      float64          `json:"fieldHeight"`
	TimeStep         float64          `json:"timeStep"`
	Pools            PoolConfig       `json:"pools"`
	ProjectileConfig ProjectileConfig `json:"projectiles"`
	FractureConfig   FractureConfig   `json:"fracture"`
	WaveConfig       WaveConfig       `json:"waves"`
}

// PoolConfig contains initial pool sizes per entity type
type PoolConfig struct {
	Asteroids   int `json:"asteroids"`
	Bullets     int `json:"bullets"`
	Fragments   int `json:"fragments"`
	PlayerShips int `json:"playerShips"`
}

// ProjectileConfig contains projectile firing configuration
type ProjectileConfig struct {
	DefaultCooldown float64 `json:"defaultCooldown"`
	DefaultLifetime float64 `json:"defaultLifetime"`
	MaxActive       int     `json:"maxActive"`
}

// FractureConfig contains fragment generation configuration
type FractureConfig struct {
	EnableGenetics bool    `json:"enableGenetics"`
	MaxFragments   int     `json:"maxFragments"`
	MinSpeed       float64 `json:"minSpeed"`
	MaxSpeed       float64 `json:"maxSpeed"`
}

// WaveConfig contains wave progression configuration
type WaveConfig struct {
	SafeHavenRadius   float64 `json:"safeHavenRadius"`
	PregeneratedWaves int     `json:"pregeneratedWaves"`
	SpawnMargin       float64 `json:"spawnMargin"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SimConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default simulation configuration
func DefaultConfig() *SimConfig {
	return &SimConfig{
		FieldWidth:  160,
		FieldHeight: 144,
		TimeStep:    1.0 / 60.0,
		Pools: PoolConfig{
			Asteroids:   32,
			Bullets:     64,
			Fragments:   200,
			PlayerShips: 2,
		},
		ProjectileConfig: ProjectileConfig{
			DefaultCooldown: 0.25,
			DefaultLifetime: 2.0,
			MaxActive:       64,
		},
		FractureConfig: FractureConfig{
			EnableGenetics: true,
			MaxFragments:   200,
			MinSpeed:       15.0,
			MaxSpeed:       40.0,
		},
		WaveConfig: WaveConfig{
			SafeHavenRadius:   40.0,
			PregeneratedWaves: 19,
			SpawnMargin:       20.0,
		},
	}
}
