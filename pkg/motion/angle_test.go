package motion

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/opd-ai/go-rotor/pkg/physics"
)

const tol = 1e-9

func TestToDegrees360_Range(t *testing.T) {
	for rad := -math.Pi; rad <= math.Pi; rad += 0.001 {
		deg := ToDegrees360(rad)
		if deg < 0 || deg >= 360 {
			t.Fatalf("ToDegrees360(%f) = %f, outside [0,360)", rad, deg)
		}
	}
}

func TestToDegrees360_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		rad      float64
		expected float64
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi / 2, 90},
		{"half", math.Pi, 180},
		{"negative_quarter", -math.Pi / 2, 270},
		{"just_below_negative_pi", -math.Pi + 1e-6, 180 + 1e-6*180/math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDegrees360(tt.rad)
			if !scalar.EqualWithinAbs(got, tt.expected, 1e-6) {
				t.Errorf("ToDegrees360(%f) = %f, want %f", tt.rad, got, tt.expected)
			}
		})
	}
}

// Negative zero does not take the negative branch, so it lands on 0, not 360.
func TestToDegrees360_NegativeZero(t *testing.T) {
	got := ToDegrees360(math.Copysign(0, -1))
	if got != 0 {
		t.Errorf("ToDegrees360(-0) = %f, want 0", got)
	}
	if got >= 360 {
		t.Errorf("ToDegrees360(-0) = %f, must stay below 360", got)
	}
}

func TestAngleOf(t *testing.T) {
	pivot := physics.Vector2D{X: 100, Y: 100}

	if got := AngleOf(physics.Vector2D{X: 150, Y: 100}, pivot); got != 0 {
		t.Errorf("AngleOf(right) = %f, want 0", got)
	}
	if got := AngleOf(physics.Vector2D{X: 100, Y: 150}, pivot); !scalar.EqualWithinAbs(got, math.Pi/2, tol) {
		t.Errorf("AngleOf(below) = %f, want π/2", got)
	}
	if got := AngleOf(physics.Vector2D{X: math.NaN(), Y: 150}, pivot); !math.IsNaN(got) {
		t.Errorf("AngleOf(NaN) = %f, want NaN", got)
	}
}
