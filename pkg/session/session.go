// Package session owns the complete simulation state for one process and is
// the single entry point for input events and render ticks. All methods must
// be called from one goroutine; the only concurrent collaborator is the atlas
// loader, which is observed through its own atomic accessors.
package session

import (
	"context"
	"time"

	"github.com/opd-ai/go-rotor/pkg/animation"
	"github.com/opd-ai/go-rotor/pkg/atlas"
	"github.com/opd-ai/go-rotor/pkg/config"
	"github.com/opd-ai/go-rotor/pkg/event"
	"github.com/opd-ai/go-rotor/pkg/logging"
	"github.com/opd-ai/go-rotor/pkg/motion"
	"github.com/opd-ai/go-rotor/pkg/physics"
	"github.com/opd-ai/go-rotor/pkg/ratemon"
	"github.com/opd-ai/go-rotor/pkg/rotor"
	"github.com/opd-ai/go-rotor/pkg/watchdog"
)

// Options configures a Session.
type Options struct {
	Pivot       physics.Vector2D
	Hz          float64
	Tuning      rotor.Tuning
	IdleTimeout time.Duration
	RateWindow  time.Duration
}

// DefaultOptions returns options for a pivot at the origin with stock tuning.
func DefaultOptions() Options {
	return Options{
		Hz:          rotor.DefaultHz,
		Tuning:      rotor.DefaultTuning(),
		IdleTimeout: watchdog.DefaultTimeout,
		RateWindow:  ratemon.DefaultWindow,
	}
}

// OptionsFrom extracts session options from a loaded configuration.
func OptionsFrom(cfg *config.Config) Options {
	x, y := cfg.Pivot()
	return Options{
		Pivot:       physics.Vector2D{X: x, Y: y},
		Hz:          cfg.Motion.Hz,
		Tuning:      cfg.Tuning,
		IdleTimeout: cfg.Motion.IdleTimeout,
		RateWindow:  cfg.Motion.RateWindow,
	}
}

// AtlasSource is polled once per frame for a finished atlas load.
// *atlas.Loader implements it.
type AtlasSource interface {
	Location() string
	Sheet() *atlas.Sheet
	Err() error
}

// Session wires the estimator, rotor controller, watchdog, animation clock
// and rate monitors together.
type Session struct {
	opts       Options
	estimator  *motion.Estimator
	controller *rotor.Controller
	watchdog   *watchdog.Watchdog
	clock      *animation.Clock
	frameRate  *ratemon.Monitor
	inputRate  *ratemon.Monitor

	motion motion.MotionState
	rotor  rotor.RotorState

	atlasSource AtlasSource
	atlasStatus atlas.Status
	sheet       *atlas.Sheet

	lastFrame time.Time
	bus       *event.Bus
	logger    *logging.Logger
	ctx       context.Context
}

// New creates a session. A nil bus or logger is replaced by a private bus or
// a discarding logger.
func New(opts Options, bus *event.Bus, logger *logging.Logger) *Session {
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Session{
		opts:        opts,
		estimator:   motion.NewEstimator(opts.Pivot, opts.Hz),
		controller:  rotor.NewController(opts.Hz, opts.Tuning),
		watchdog:    watchdog.New(opts.IdleTimeout),
		clock:       animation.NewClock(),
		frameRate:   ratemon.New(opts.RateWindow),
		inputRate:   ratemon.New(opts.RateWindow),
		motion:      motion.NewMotionState(),
		atlasStatus: atlas.StatusNone,
		bus:         bus,
		logger:      logger,
		ctx:         logging.WithSessionID(context.Background(), logging.NewSessionID()),
	}

	s.logger.Info(s.ctx, "session created",
		"pivot_x", opts.Pivot.X,
		"pivot_y", opts.Pivot.Y,
		"hz", s.controller.Hz,
	)
	return s
}

// ID returns the session correlation id used in log records.
func (s *Session) ID() string {
	return logging.GetSessionID(s.ctx)
}

// Bus returns the bus the session publishes on.
func (s *Session) Bus() *event.Bus {
	return s.bus
}

// Pivot returns the rotation center.
func (s *Session) Pivot() physics.Vector2D {
	return s.opts.Pivot
}

// AttachAtlas makes the session observe src. Readiness is checked on each
// OnFrame; the session never waits for it.
func (s *Session) AttachAtlas(src AtlasSource) {
	s.atlasSource = src
	s.sheet = nil
	s.clock.SetFrameCount(0)
	if src == nil {
		s.atlasStatus = atlas.StatusNone
		return
	}
	s.atlasStatus = atlas.StatusLoading
}

// OnStart handles a contact start. Only the first sample is used.
func (s *Session) OnStart(samples ...motion.PointerSample) {
	if len(samples) == 0 {
		return
	}
	s.handleSample(samples[0])
}

// OnMove handles a contact move. Only the first sample is used.
func (s *Session) OnMove(samples ...motion.PointerSample) {
	if len(samples) == 0 {
		return
	}
	s.handleSample(samples[0])
}

func (s *Session) handleSample(p motion.PointerSample) {
	s.watchdog.Touch(p.At)
	s.inputRate.Record(p.At)

	reading, ok := s.estimator.Sample(&s.motion, p)
	if !ok {
		return
	}
	s.advance(reading.CircSec)
}

// OnCancel drops the input stream. Motion and rotor state return to their
// defaults at once, without decay.
func (s *Session) OnCancel() {
	s.motion.Reset()
	s.rotor.Reset()
	s.clock.SetPeriod(0)

	s.logger.Debug(s.ctx, "input cancelled, state reset")
	s.bus.Publish(event.NewRotorEvent(event.SessionReset, s, 0, 0, 0))
}

func (s *Session) advance(circSec float64) {
	u := s.controller.Advance(&s.rotor, circSec)
	s.clock.SetPeriod(u.Period)

	if u.SpeedChanged {
		s.bus.Publish(event.NewRotorEvent(event.RotorSpeedChanged, s,
			s.rotor.RotationSpeed, s.rotor.HeliHeight, u.Period))
	}
}

// OnFrame runs one render tick: the idle check, frame-rate accounting, the
// atlas readiness poll and the animation clock. It returns the state to draw.
func (s *Session) OnFrame(now time.Time) Snapshot {
	if s.watchdog.Check(now) {
		// The last angle survives, so the next contact is measured against it.
		s.motion.ClearPointer()
		s.advance(0)
		s.bus.Publish(&event.BaseEvent{EventType: event.InputIdle, Source: s})
	}

	s.frameRate.Record(now)
	s.pollAtlas()
	s.clock.Tick(now)
	s.lastFrame = now

	return s.Snapshot()
}

func (s *Session) pollAtlas() {
	if s.atlasSource == nil || s.atlasStatus == atlas.StatusReady || s.atlasStatus == atlas.StatusFailed {
		return
	}

	if sheet := s.atlasSource.Sheet(); sheet != nil {
		s.sheet = sheet
		s.atlasStatus = atlas.StatusReady
		s.clock.SetFrameCount(sheet.FrameCount())
		s.logger.Info(s.ctx, "animation enabled",
			"location", s.atlasSource.Location(),
			"frames", sheet.FrameCount(),
		)
		s.bus.Publish(event.NewAtlasReadyEvent(s, s.atlasSource.Location(), sheet.FrameCount()))
		return
	}

	if err := s.atlasSource.Err(); err != nil {
		s.atlasStatus = atlas.StatusFailed
		s.logger.Warn(s.ctx, "animation disabled", "location", s.atlasSource.Location(), "error", err)
		s.bus.Publish(event.NewAtlasFailedEvent(s, s.atlasSource.Location(), err))
	}
}

// Snapshot returns the current readouts without advancing anything.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		At:              s.lastFrame,
		Pivot:           s.opts.Pivot,
		Pointer:         s.motion.Last,
		HasPointer:      s.motion.HasLast,
		Deg360:          s.motion.Deg360,
		AngularVelocity: s.motion.AngularVelocity,
		CircSec:         s.motion.CircSec,
		RotationSpeed:   s.rotor.RotationSpeed,
		HeliHeight:      s.rotor.HeliHeight,
		Period:          s.clock.Period(),
		Frame:           s.clock.Frame(),
		FrameCount:      s.clock.FrameCount(),
		FrameRate:       s.frameRate.Rate(),
		InputRate:       s.inputRate.Rate(),
		AtlasStatus:     s.atlasStatus,
		Sheet:           s.sheet,
	}
}
