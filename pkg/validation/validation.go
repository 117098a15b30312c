// Package validation provides input validation for simulation parameters.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Parameter limits for simulation inputs
const (
	MaxTypeTagLen   = 32
	MaxWaveNumber   = 10000
	MaxRadius       = 1000.0
	MaxMagnitude    = 1000.0
	MaxDurationSecs = 3600.0
)

// Type tags are lowercase identifiers, optionally underscore-separated
var validTypeTag = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateCoordinate checks that a coordinate component is a finite number.
func ValidateCoordinate(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be finite, got %v", name, value)
	}
	return nil
}

// ValidatePosition checks both components of a position.
func ValidatePosition(x, y float64) error {
	if err := ValidateCoordinate("position x", x); err != nil {
		return err
	}
	return ValidateCoordinate("position y", y)
}

// ValidateVelocity checks both components of a velocity.
func ValidateVelocity(vx, vy float64) error {
	if err := ValidateCoordinate("velocity x", vx); err != nil {
		return err
	}
	return ValidateCoordinate("velocity y", vy)
}

// ValidateAngle checks that an angle in radians is finite.
func ValidateAngle(angle float64) error {
	return ValidateCoordinate("angle", angle)
}

// ValidateRadius checks that a radius is finite, positive, and bounded.
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("radius must be finite, got %v", radius)
	}
	if radius <= 0 {
		return fmt.Errorf("radius must be positive, got %v", radius)
	}
	if radius > MaxRadius {
		return fmt.Errorf("radius too large: %v (max %v)", radius, MaxRadius)
	}
	return nil
}

// ValidateDamage checks that a damage amount is finite and non-negative.
func ValidateDamage(damage float64) error {
	if math.IsNaN(damage) || math.IsInf(damage, 0) {
		return fmt.Errorf("damage must be finite, got %v", damage)
	}
	if damage < 0 {
		return fmt.Errorf("damage cannot be negative: %v", damage)
	}
	return nil
}

// ValidateTypeTag validates and normalizes an entity type tag.
func ValidateTypeTag(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", fmt.Errorf("entity type tag cannot be empty")
	}
	if len(trimmed) > MaxTypeTagLen {
		return "", fmt.Errorf("entity type tag too long: %d characters (max %d)", len(trimmed), MaxTypeTagLen)
	}
	if !validTypeTag.MatchString(trimmed) {
		return "", fmt.Errorf("entity type tag contains invalid characters (lowercase alphanumeric and underscores only)")
	}
	return trimmed, nil
}

// ValidateWaveNumber checks that a wave number is in range.
func ValidateWaveNumber(wave int) error {
	if wave < 1 {
		return fmt.Errorf("wave number must be at least 1, got %d", wave)
	}
	if wave > MaxWaveNumber {
		return fmt.Errorf("wave number too large: %d (max %d)", wave, MaxWaveNumber)
	}
	return nil
}

// ValidateEffectMagnitude checks that a status effect magnitude is finite
// and bounded.
func ValidateEffectMagnitude(magnitude float64) error {
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return fmt.Errorf("effect magnitude must be finite, got %v", magnitude)
	}
	if math.Abs(magnitude) > MaxMagnitude {
		return fmt.Errorf("effect magnitude too large: %v (max %v)", magnitude, MaxMagnitude)
	}
	return nil
}

// ValidateEffectDuration checks that a status effect duration is positive
// and bounded.
func ValidateEffectDuration(duration float64) error {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return fmt.Errorf("effect duration must be finite, got %v", duration)
	}
	if duration <= 0 {
		return fmt.Errorf("effect duration must be positive, got %v", duration)
	}
	if duration > MaxDurationSecs {
		return fmt.Errorf("effect duration too long: %v seconds (max %v)", duration, MaxDurationSecs)
	}
	return nil
}
