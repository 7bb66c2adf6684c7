// pkg/render/engo/input.go
package engo

import (
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-rotor/pkg/motion"
	"github.com/opd-ai/go-rotor/pkg/replay"
)

// cancelButton is the key binding that drops the input stream.
const cancelButton = "cancel"

// pointerTracker turns engo mouse/touch actions into session input. A release
// only stops tracking; the idle watchdog then decays the rotor.
type pointerTracker struct {
	target  replay.Target
	pressed bool
}

func (p *pointerTracker) handle(action engo.Action, x, y float32, now time.Time) {
	sample := motion.PointerSample{X: float64(x), Y: float64(y), At: now}

	switch action {
	case engo.Press:
		p.pressed = true
		p.target.OnStart(sample)
	case engo.Move:
		if p.pressed {
			p.target.OnMove(sample)
		}
	case engo.Release:
		p.pressed = false
	}
}

func (p *pointerTracker) cancel() {
	p.pressed = false
	p.target.OnCancel()
}

// InputSystem forwards pointer input to the session once per engo update.
type InputSystem struct {
	tracker pointerTracker
	now     func() time.Time
}

// NewInputSystem creates a new input system
func NewInputSystem(target replay.Target, now func() time.Time) *InputSystem {
	if now == nil {
		now = time.Now
	}
	return &InputSystem{
		tracker: pointerTracker{target: target},
		now:     now,
	}
}

// Priority runs input before the frame step.
func (is *InputSystem) Priority() int {
	return inputPriority
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads the current mouse/touch action and the cancel key.
func (is *InputSystem) Update(dt float32) {
	if engo.Input.Button(cancelButton).JustPressed() {
		is.tracker.cancel()
		return
	}

	m := engo.Input.Mouse
	is.tracker.handle(m.Action, m.X, m.Y, is.now())
}

// Tracking reports whether a contact is currently held.
func (is *InputSystem) Tracking() bool {
	return is.tracker.pressed
}

// SetupInputBindings registers the key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(cancelButton, engo.KeyEscape)
}
