// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-rotor/pkg/render"
	"github.com/opd-ai/go-rotor/pkg/session"
)

// hudFontURL is the virtual asset name the embedded Go font is registered under.
const hudFontURL = "goregular.ttf"

// PreloadFont registers the embedded Go Regular font with engo's file loader.
func PreloadFont() error {
	return engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF))
}

// NewHUDFont creates the font used for the readouts. PreloadFont must have run.
func NewHUDFont(size float64) (*common.Font, error) {
	font := &common.Font{
		URL:  hudFontURL,
		FG:   color.White,
		Size: size,
	}
	if err := font.CreatePreloaded(); err != nil {
		return nil, err
	}
	return font, nil
}

// hudText is the single text entity holding every readout line.
type hudText struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// HUDSystem manages the heads-up display
type HUDSystem struct {
	font   *common.Font
	text   *hudText
	lines  []string
	shown  string
	margin float32
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(font *common.Font) *HUDSystem {
	return &HUDSystem{
		font:   font,
		margin: 10,
	}
}

// Attach creates the text entity and hands it to the render system.
func (hud *HUDSystem) Attach(rs *common.RenderSystem) {
	hud.text = &hudText{BasicEntity: ecs.NewBasic()}
	hud.text.RenderComponent = common.RenderComponent{
		Drawable: common.Text{Font: hud.font, LineSpacing: 0.25},
		Color:    color.White,
	}
	hud.text.RenderComponent.SetZIndex(10)
	hud.text.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: hud.margin, Y: hud.margin},
	}
	rs.Add(&hud.text.BasicEntity, &hud.text.RenderComponent, &hud.text.SpaceComponent)
}

// SetSnapshot stores the readouts for the next update.
func (hud *HUDSystem) SetSnapshot(snap session.Snapshot) {
	hud.lines = render.Readouts(snap)
}

// Priority runs the HUD after the frame step has stored a snapshot.
func (hud *HUDSystem) Priority() int {
	return hudPriority
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update rebuilds the text drawable when the readouts changed.
func (hud *HUDSystem) Update(dt float32) {
	if hud.text == nil {
		return
	}
	body := hudBody(hud.lines)
	if body == hud.shown {
		return
	}
	hud.shown = body
	hud.text.Drawable = common.Text{Font: hud.font, Text: body, LineSpacing: 0.25}
}

// Text returns the text currently on screen.
func (hud *HUDSystem) Text() string {
	return hud.shown
}

func hudBody(lines []string) string {
	return strings.Join(lines, "\n")
}
