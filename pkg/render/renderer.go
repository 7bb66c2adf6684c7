// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-rotor/pkg/logging"
	"github.com/opd-ai/go-rotor/pkg/session"
)

// Renderer draws one frame of session state.
type Renderer interface {
	Draw(snap session.Snapshot) error
}

// NullRenderer draws nothing and logs each frame at debug level.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Draw implements Renderer.
func (d *NullRenderer) Draw(snap session.Snapshot) error {
	d.frames++
	d.logger.Debug(context.Background(), "Draw called",
		"frame", d.frames,
		"circ_sec", snap.CircSec,
		"rotation_speed", snap.RotationSpeed,
		"heli_height", snap.HeliHeight,
		"sprite_frame", snap.Frame,
		"atlas", snap.AtlasStatus,
	)
	return nil
}

// Frames returns how many snapshots have been drawn.
func (d *NullRenderer) Frames() int {
	return d.frames
}
