// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-rotor/pkg/logging"
	"github.com/opd-ai/go-rotor/pkg/session"
)

// SceneType is the name engo registers the rotor scene under.
const SceneType = "RotorScene"

// System priorities; ecs runs higher values first.
const (
	inputPriority = 20
	framePriority = 10
	hudPriority   = 5
)

// RunOptions configures the engo window.
type RunOptions struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// RotorScene hosts one session inside engo: input feeds the session, and each
// update runs OnFrame and draws the returned snapshot.
type RotorScene struct {
	sess   *session.Session
	logger *logging.Logger
	now    func() time.Time
	onExit func()

	assets   *AssetManager
	renderer *EngoRenderer
	input    *InputSystem
	hud      *HUDSystem
}

// NewRotorScene creates a new rotor scene. onExit runs when the window closes.
func NewRotorScene(sess *session.Session, logger *logging.Logger, onExit func()) *RotorScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &RotorScene{
		sess:   sess,
		logger: logger,
		now:    time.Now,
		onExit: onExit,
		assets: NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *RotorScene) Type() string {
	return SceneType
}

// Preload registers the HUD font (required by Engo)
func (scene *RotorScene) Preload() {
	if err := PreloadFont(); err != nil {
		scene.logger.Error(context.Background(), "font preload failed", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *RotorScene) Setup(u engo.Updater) {
	world := u.(*ecs.World)
	common.SetBackground(color.Black)
	SetupInputBindings()

	rs := &common.RenderSystem{}
	world.AddSystem(rs)

	scene.assets.LoadAssets()

	font, err := NewHUDFont(14)
	if err != nil {
		scene.logger.Error(context.Background(), "HUD font unavailable", err)
	} else {
		scene.hud = NewHUDSystem(font)
		scene.hud.Attach(rs)
	}

	scene.renderer = NewEngoRenderer(rs, scene.assets, scene.hud)
	scene.renderer.Initialize()

	scene.input = NewInputSystem(scene.sess, scene.now)
	world.AddSystem(scene.input)
	world.AddSystem(&frameSystem{scene: scene})
	if scene.hud != nil {
		world.AddSystem(scene.hud)
	}

	scene.logger.Info(context.Background(), "scene ready",
		"session_id", scene.sess.ID(),
		"pivot_x", scene.sess.Pivot().X,
		"pivot_y", scene.sess.Pivot().Y,
	)
}

// frame advances the session once and draws the result.
func (scene *RotorScene) frame() {
	snap := scene.sess.OnFrame(scene.now())
	if err := scene.renderer.Draw(snap); err != nil {
		scene.logger.Error(context.Background(), "draw failed", err)
	}
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *RotorScene) Exit() {
	scene.logger.Info(context.Background(), "window closed")
	if scene.onExit != nil {
		scene.onExit()
	}
	engo.Exit()
}

// frameSystem drives RotorScene.frame after input has been processed.
type frameSystem struct {
	scene *RotorScene
}

// Priority orders the frame step after input and before the HUD.
func (fs *frameSystem) Priority() int {
	return framePriority
}

// Remove satisfies the ecs.System interface
func (fs *frameSystem) Remove(basic ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (fs *frameSystem) Update(dt float32) {
	fs.scene.frame()
}

// Run opens the window and blocks until it closes.
func Run(opts RunOptions, scene *RotorScene) {
	engo.Run(engo.RunOptions{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		VSync:  opts.VSync,
	}, scene)
}
