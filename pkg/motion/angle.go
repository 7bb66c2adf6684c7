// Package motion turns pointer samples taken around a pivot into angular
// readings: the raw branch-cut angle, its [0,360) degree form, the wrap-corrected
// angular velocity, and a circles-per-second estimate.
package motion

import (
	"math"

	"github.com/opd-ai/go-rotor/pkg/physics"
)

// AngleOf returns atan2(p.y - pivot.y, p.x - pivot.x) in radians, in (-π, π].
func AngleOf(p, pivot physics.Vector2D) float64 {
	return p.AngleAbout(pivot)
}

// ToDegrees360 converts radians to degrees and folds negative values into
// [0,360) as 180 + (180 + deg). Negative zero is not less than zero, so it is
// returned unchanged and compares equal to 0.
func ToDegrees360(rad float64) float64 {
	deg := rad * 180 / math.Pi
	if deg < 0 {
		deg = 180 + (180 + deg)
	}
	return deg
}
