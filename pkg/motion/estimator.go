package motion

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/opd-ai/go-rotor/pkg/physics"
)

const (
	// DefaultHz is the nominal sample rate used to scale degree deltas into
	// circles per second.
	DefaultHz = 60.0

	// radWrapThreshold catches atan2 branch-cut jumps (~2π) without eating
	// genuine fast motion.
	radWrapThreshold = 5.0

	// degWrapThreshold is the degree-domain analog, looser because deltas near
	// a full lap are common during fast spins.
	degWrapThreshold = -300.0
)

// PointerSample is a single contact position reported by the input source.
type PointerSample struct {
	X  float64
	Y  float64
	At time.Time
}

// Position returns the sample as a vector.
func (s PointerSample) Position() physics.Vector2D {
	return physics.Vector2D{X: s.X, Y: s.Y}
}

// MotionState is mutated in place by Estimator.Sample.
type MotionState struct {
	Phi             float64 // radians, NaN until the first sample
	LastPhi         float64 // previous Phi, NaN until the first sample
	Deg360          float64
	AngularVelocity float64 // wrap-corrected radians per sample
	CircSec         float64

	Last    physics.Vector2D // last pointer position
	HasLast bool
}

// NewMotionState returns a state with no samples.
func NewMotionState() MotionState {
	return MotionState{
		Phi:     math.NaN(),
		LastPhi: math.NaN(),
	}
}

// Reset returns the state to its NaN/zero defaults.
func (m *MotionState) Reset() {
	*m = NewMotionState()
}

// Primed reports whether a previous angle exists to difference against.
func (m *MotionState) Primed() bool {
	return !math.IsNaN(m.LastPhi)
}

// ClearPointer forgets the last pointer position and zeroes the rate. The
// previous angle is kept.
func (m *MotionState) ClearPointer() {
	m.Last = physics.Vector2D{}
	m.HasLast = false
	m.CircSec = 0
}

// Reading is the outcome of one velocity update.
type Reading struct {
	Phi             float64
	Deg360          float64
	AngularVelocity float64
	CircSecRaw      float64 // wrap-corrected degree delta
	CircSec         float64
}

// Estimator converts consecutive samples around Pivot into angular velocity.
type Estimator struct {
	Pivot physics.Vector2D
	Hz    float64
}

// NewEstimator creates an estimator; hz <= 0 selects DefaultHz.
func NewEstimator(pivot physics.Vector2D, hz float64) *Estimator {
	if hz <= 0 {
		hz = DefaultHz
	}
	return &Estimator{Pivot: pivot, Hz: hz}
}

// Sample folds s into m. It returns ok=false for the first sample after a
// reset, which only primes the state. On return m.LastPhi always equals m.Phi.
func (e *Estimator) Sample(m *MotionState, s PointerSample) (Reading, bool) {
	pos := s.Position()
	phi := AngleOf(pos, e.Pivot)
	deg360 := ToDegrees360(phi)

	m.Phi = phi
	m.Deg360 = deg360
	m.Last = pos
	m.HasLast = true

	if !m.Primed() {
		m.LastPhi = phi
		return Reading{Phi: phi, Deg360: deg360}, false
	}

	angV := phi - m.LastPhi
	if angV > radWrapThreshold {
		angV -= 2 * math.Pi
	}
	if angV < -radWrapThreshold {
		angV += 2 * math.Pi
	}

	raw := deg360 - ToDegrees360(m.LastPhi)
	if raw < degWrapThreshold {
		raw += 360
	}
	circSec := scalar.Round(raw*e.Hz/360, 2)

	m.AngularVelocity = angV
	m.CircSec = circSec
	m.LastPhi = phi

	return Reading{
		Phi:             phi,
		Deg360:          deg360,
		AngularVelocity: angV,
		CircSecRaw:      raw,
		CircSec:         circSec,
	}, true
}
