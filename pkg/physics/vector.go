// pkg/physics/vector.go
package physics

import "math"

// Vector2D is a point or displacement in screen space (y grows downwards)
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Angle returns the angle of the vector in radians, in (-π, π]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleAbout returns the angle of v measured around pivot.
func (v Vector2D) AngleAbout(pivot Vector2D) float64 {
	return v.Sub(pivot).Angle()
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(magnitude)
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// IsNaN reports whether either component is NaN
func (v Vector2D) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y)
}
