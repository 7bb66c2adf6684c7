// cmd/rotor/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-rotor/pkg/atlas"
	"github.com/opd-ai/go-rotor/pkg/config"
	"github.com/opd-ai/go-rotor/pkg/event"
	"github.com/opd-ai/go-rotor/pkg/logging"
	"github.com/opd-ai/go-rotor/pkg/render"
	engorender "github.com/opd-ai/go-rotor/pkg/render/engo"
	"github.com/opd-ai/go-rotor/pkg/replay"
	"github.com/opd-ai/go-rotor/pkg/resource"
	"github.com/opd-ai/go-rotor/pkg/session"
)

type options struct {
	configPath string
	renderer   string
	atlas      string
	script     string
	duration   time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to YAML configuration file")
	flag.StringVar(&opts.renderer, "renderer", "", "Renderer: 'engo', 'terminal' or 'null' (overrides config)")
	flag.StringVar(&opts.atlas, "atlas", "", "Sprite atlas path or URL (overrides config)")
	flag.StringVar(&opts.script, "script", "", "YAML gesture script for headless renderers")
	flag.DurationVar(&opts.duration, "duration", 0, "Stop headless renderers after this long (0 runs until interrupted)")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "rotor: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewLoggerTo(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := event.NewEventBus()
	sess := session.New(session.OptionsFrom(cfg), bus, logger)
	ctx = logging.WithSessionID(ctx, sess.ID())
	subscribeLogging(ctx, bus, logger)

	manager := resource.NewManager(cfg.Resource, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Resource.ShutdownTimeout)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Resource shutdown incomplete", err)
		}
	}()

	if cfg.Atlas.Source != "" {
		fetcher := atlas.NewFetchService(cfg.Fetch, &http.Client{Timeout: cfg.Fetch.Timeout}, logger)
		loader := atlas.NewLoader(cfg.Atlas.Source, fetcher, manager, logger)
		if err := loader.Start(ctx); err != nil {
			return fmt.Errorf("start atlas load: %w", err)
		}
		sess.AttachAtlas(loader)
	}

	logger.Info(ctx, "Starting rotor",
		"renderer", cfg.Renderer,
		"atlas", cfg.Atlas.Source,
		"hz", cfg.Motion.Hz,
	)

	if cfg.Renderer == config.RendererEngo {
		scene := engorender.NewRotorScene(sess, logger, stop)
		engorender.Run(engorender.RunOptions{
			Title:  cfg.Window.Title,
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			VSync:  true,
		}, scene)
		return nil
	}

	script, err := loadScript(opts.script, sess)
	if err != nil {
		return err
	}

	var r render.Renderer
	drawEvery := 1
	if cfg.Renderer == config.RendererTerminal {
		tr := render.NewTerminalRenderer(41, 21, 10, os.Stdout)
		tr.SetCenter(sess.Pivot())
		r = tr
		drawEvery = terminalDrawEvery(cfg.Motion.Hz)
	} else {
		r = render.NewNullRenderer(logger)
	}

	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	h := &headless{
		sess:      sess,
		renderer:  r,
		script:    script,
		interval:  frameInterval(cfg.Motion.Hz),
		drawEvery: drawEvery,
		logger:    logger,
	}
	return h.run(ctx)
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.renderer == "" && opts.atlas == "" {
		return cfg, nil
	}
	if opts.renderer != "" {
		cfg.Renderer = opts.renderer
	}
	if opts.atlas != "" {
		cfg.Atlas.Source = opts.atlas
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadScript returns the gesture script for headless hosts: the file at path,
// or the built-in demo when path is empty. The script is rebuilt from now on
// every pass.
func loadScript(path string, sess *session.Session) (func(time.Time) replay.Script, error) {
	radius := sess.Pivot().X / 2
	if radius <= 0 {
		radius = 100
	}

	if path == "" {
		return func(start time.Time) replay.Script {
			return replay.DemoScript(sess.Pivot(), start, radius)
		}, nil
	}

	origin := time.Now()
	script, err := replay.LoadScript(path, sess.Pivot(), origin)
	if err != nil {
		return nil, err
	}
	return func(start time.Time) replay.Script {
		return script.Shift(start.Sub(origin))
	}, nil
}

// subscribeLogging mirrors session events into the log.
func subscribeLogging(ctx context.Context, bus *event.Bus, logger *logging.Logger) {
	bus.Subscribe(event.RotorSpeedChanged, func(e event.Event) {
		if re, ok := e.(*event.RotorEvent); ok {
			logger.Debug(ctx, "Rotor speed changed",
				"speed", re.Speed,
				"height", re.Height,
				"period", re.Period,
			)
		}
	})

	bus.Subscribe(event.SessionReset, func(e event.Event) {
		logger.Info(ctx, "Session reset")
	})

	bus.Subscribe(event.InputIdle, func(e event.Event) {
		logger.Debug(ctx, "Input idle")
	})

	bus.Subscribe(event.AtlasReady, func(e event.Event) {
		if ae, ok := e.(*event.AtlasEvent); ok {
			logger.Info(ctx, "Atlas ready",
				"location", ae.Location,
				"frames", ae.Frames,
			)
		}
	})

	bus.Subscribe(event.AtlasFailed, func(e event.Event) {
		if ae, ok := e.(*event.AtlasEvent); ok {
			logger.Warn(ctx, "Atlas unavailable, animation disabled",
				"location", ae.Location,
				"error", ae.Err,
			)
		}
	})
}
