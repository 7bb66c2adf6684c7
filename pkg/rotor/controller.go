// Package rotor integrates circles-per-second readings into a rotor speed
// with asymmetric accel/decel, and derives a lift height from that speed.
package rotor

import (
	"math"
	"time"
)

// DefaultHz is the nominal update rate the accel/decel steps are divided by.
const DefaultHz = 60.0

// stoppedPeriod is the shortest period treated as "not spinning".
const stoppedPeriod = time.Second

// Tuning holds the integrator constants.
type Tuning struct {
	Accel         float64 `yaml:"accel"`          // speed gained per second of driving input
	Decel         float64 `yaml:"decel"`          // speed lost per second otherwise
	LiftThreshold float64 `yaml:"lift_threshold"` // speed at which height starts rising
	RiseRate      float64 `yaml:"rise_rate"`      // height per update per unit (excess + 1)
	FallRate      float64 `yaml:"fall_rate"`      // height per update per unit (deficit + 1)
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		Accel:         1.0,
		Decel:         0.5,
		LiftThreshold: 1.5,
		RiseRate:      0.002,
		FallRate:      0.004,
	}
}

// RotorState is the integrator output. Neither field is ever negative.
type RotorState struct {
	RotationSpeed float64
	HeliHeight    float64
}

// Reset zeroes the state.
func (s *RotorState) Reset() {
	*s = RotorState{}
}

// Update describes the effect of one Advance call.
type Update struct {
	Accelerated  bool
	SpeedChanged bool
	Period       time.Duration // animation period for the new speed, 0 when stopped
}

// Controller advances a RotorState once per velocity reading or idle tick.
type Controller struct {
	Hz     float64
	Tuning Tuning
}

// NewController creates a controller; hz <= 0 selects DefaultHz.
func NewController(hz float64, tuning Tuning) *Controller {
	if hz <= 0 {
		hz = DefaultHz
	}
	return &Controller{Hz: hz, Tuning: tuning}
}

// Advance applies one step for circSec. Speed accelerates only while
// circSec <= -speed, otherwise decays at the decel rate, and is clamped at 0.
func (c *Controller) Advance(s *RotorState, circSec float64) Update {
	prev := s.RotationSpeed

	// A rotor at rest with no input has nothing to accelerate from.
	var u Update
	if circSec <= -s.RotationSpeed && (circSec < 0 || s.RotationSpeed > 0) {
		s.RotationSpeed += c.Tuning.Accel / c.Hz
		u.Accelerated = true
	} else {
		s.RotationSpeed -= c.Tuning.Decel / c.Hz
	}
	if s.RotationSpeed < 0 {
		s.RotationSpeed = 0
	}

	c.lift(s)

	u.SpeedChanged = s.RotationSpeed != prev
	u.Period = PeriodFor(s.RotationSpeed)
	return u
}

// lift derives the new height from speed and the previous height.
func (c *Controller) lift(s *RotorState) {
	t := c.Tuning
	switch {
	case s.RotationSpeed >= t.LiftThreshold:
		s.HeliHeight += t.RiseRate * ((s.RotationSpeed - t.LiftThreshold) + 1.0)
	case s.HeliHeight > 0:
		s.HeliHeight -= t.FallRate * ((t.LiftThreshold - s.RotationSpeed) + 1.0)
		if s.HeliHeight < 0 {
			s.HeliHeight = 0
		}
	default:
		s.HeliHeight = 0
	}
}

// PeriodFor maps a rotor speed to an animation frame period: round(1000/speed)
// milliseconds, or 0 when stopped. Periods of a second or more count as stopped.
func PeriodFor(speed float64) time.Duration {
	if !(speed > 0) {
		return 0
	}
	ms := math.Round(1000 / speed)
	period := time.Duration(ms) * time.Millisecond
	if period >= stoppedPeriod {
		return 0
	}
	return period
}
