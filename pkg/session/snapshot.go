package session

import (
	"image"
	"time"

	"github.com/opd-ai/go-rotor/pkg/atlas"
	"github.com/opd-ai/go-rotor/pkg/physics"
)

// Snapshot is a value copy of everything a renderer shows for one frame.
type Snapshot struct {
	At         time.Time
	Pivot      physics.Vector2D
	Pointer    physics.Vector2D
	HasPointer bool

	Deg360          float64
	AngularVelocity float64
	CircSec         float64

	RotationSpeed float64
	HeliHeight    float64

	Period     time.Duration
	Frame      int // 1-based, 0 while the animation is inert
	FrameCount int

	FrameRate float64
	InputRate float64

	AtlasStatus atlas.Status
	Sheet       *atlas.Sheet
}

// Animated reports whether a sprite frame is available to draw.
func (s Snapshot) Animated() bool {
	return s.Frame > 0 && s.Sheet != nil
}

// FrameImage returns the current sprite frame, or nil while inert.
func (s Snapshot) FrameImage() image.Image {
	if !s.Animated() {
		return nil
	}
	return s.Sheet.Frame(s.Frame)
}

// Spinning reports whether the rotor animation is advancing.
func (s Snapshot) Spinning() bool {
	return s.Period > 0
}
