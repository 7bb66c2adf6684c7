// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-rotor/pkg/session"
)

const (
	// liftScale is how many pixels one unit of heli height raises the rotor.
	liftScale = 100.0

	// spinStep is the fallback sprite's rotation per draw at speed 1, in degrees.
	spinStep = 6.0

	rotorSize   = 96
	hubSize     = 8
	pointerSize = 6
)

// sprite is an entity the renderer positions every frame.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer draws session snapshots with engo entities. It implements
// render.Renderer and must be driven from the engo update loop.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	assets       *AssetManager
	hud          *HUDSystem

	rotor   *sprite
	hub     *sprite
	pointer *sprite

	spin float64
}

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(rs *common.RenderSystem, assets *AssetManager, hud *HUDSystem) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: rs,
		assets:       assets,
		hud:          hud,
	}
}

// Initialize creates the rotor, hub and pointer entities.
func (r *EngoRenderer) Initialize() {
	r.rotor = r.newSprite(r.assets.RotorFrame(nil, 0), rotorSize, color.White, 1)
	r.hub = r.newSprite(r.assets.Hub(), hubSize, color.RGBA{255, 200, 0, 255}, 2)
	r.pointer = r.newSprite(r.assets.Pointer(), pointerSize, color.RGBA{0, 255, 0, 255}, 3)
	r.pointer.Hidden = true
}

func (r *EngoRenderer) newSprite(d common.Drawable, size float32, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: d, Color: c}
	s.RenderComponent.SetZIndex(z)
	s.SpaceComponent = common.SpaceComponent{Width: size, Height: size}
	r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Draw implements render.Renderer
func (r *EngoRenderer) Draw(snap session.Snapshot) error {
	if r.hud != nil {
		r.hud.SetSnapshot(snap)
	}
	if r.rotor == nil {
		return nil
	}

	center := rotorCenter(snap, liftScale)

	r.rotor.Drawable = r.assets.RotorFrame(snap.Sheet, snap.Frame)
	if snap.Animated() {
		r.rotor.Rotation = 0
	} else {
		r.spin = advanceSpin(r.spin, snap.RotationSpeed)
		r.rotor.Rotation = float32(r.spin)
	}
	r.rotor.SetCenter(center)
	r.hub.SetCenter(center)

	r.pointer.Hidden = !snap.HasPointer
	if snap.HasPointer {
		r.pointer.SetCenter(engo.Point{X: float32(snap.Pointer.X), Y: float32(snap.Pointer.Y)})
	}
	return nil
}

// rotorCenter is the pivot raised by the current heli height. Screen Y grows
// downward, so lift subtracts.
func rotorCenter(snap session.Snapshot, scale float64) engo.Point {
	return engo.Point{
		X: float32(snap.Pivot.X),
		Y: float32(snap.Pivot.Y - snap.HeliHeight*scale),
	}
}

// advanceSpin turns the fallback sprite counter-clockwise on screen.
func advanceSpin(angle, speed float64) float64 {
	a := math.Mod(angle-speed*spinStep, 360)
	if a < 0 {
		a += 360
	}
	return a
}
