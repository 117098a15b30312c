// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func TestVector2D_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector2D
		v2       Vector2D
		expected Vector2D
	}{
		{
			name:     "positive_vectors",
			v1:       Vector2D{X: 3, Y: 4},
			v2:       Vector2D{X: 1, Y: 2},
			expected: Vector2D{X: 4, Y: 6},
		},
		{
			name:     "mixed_signs",
			v1:       Vector2D{X: 5, Y: -3},
			v2:       Vector2D{X: -2, Y: 7},
			expected: Vector2D{X: 3, Y: 4},
		},
		{
			name:     "zero_vector",
			v1:       Vector2D{X: 0, Y: 0},
			v2:       Vector2D{X: 5, Y: -3},
			expected: Vector2D{X: 5, Y: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Add(tt.v2)
			if result.X != tt.expected.X || result.Y != tt.expected.Y {
				t.Errorf("Add() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		expected Vector2D
	}{
		{
			name:     "unit_x",
			v:        Vector2D{X: 5, Y: 0},
			expected: Vector2D{X: 1, Y: 0},
		},
		{
			name:     "three_four_five",
			v:        Vector2D{X: 3, Y: 4},
			expected: Vector2D{X: 0.6, Y: 0.8},
		},
		{
			name:     "zero_vector",
			v:        Vector2D{X: 0, Y: 0},
			expected: Vector2D{X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Normalize()
			if math.Abs(result.X-tt.expected.X) > 1e-9 || math.Abs(result.Y-tt.expected.Y) > 1e-9 {
				t.Errorf("Normalize() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_Distance(t *testing.T) {
	v1 := Vector2D{X: 0, Y: 0}
	v2 := Vector2D{X: 3, Y: 4}

	if d := v1.Distance(v2); d != 5 {
		t.Errorf("Distance() = %v, expected 5", d)
	}
	if d := v1.DistanceSquared(v2); d != 25 {
		t.Errorf("DistanceSquared() = %v, expected 25", d)
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 10)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-10) > 1e-9 {
		t.Errorf("FromAngle(pi/2, 10) = %v, expected (0, 10)", v)
	}

	if angle := v.Angle(); math.Abs(angle-math.Pi/2) > 1e-9 {
		t.Errorf("Angle() = %v, expected %v", angle, math.Pi/2)
	}
}
