package atlas

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/opd-ai/go-rotor/pkg/logging"
)

// Status is the lifecycle of an atlas load.
type Status string

const (
	StatusNone    Status = "none"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// ErrAlreadyStarted is returned by a second Start call.
var ErrAlreadyStarted = errors.New("atlas load already started")

// Runner starts tracked background work; resource.Manager satisfies it.
type Runner interface {
	StartGoroutine(ctx context.Context, name string, fn func(context.Context)) error
}

type result struct {
	sheet *Sheet
	err   error
}

// Loader loads one atlas in the background. Readers poll Sheet or Err from the
// frame loop and never block.
type Loader struct {
	location string
	fetcher  Fetcher
	runner   Runner
	logger   *logging.Logger

	started atomic.Bool
	result  atomic.Pointer[result]
	done    chan struct{}
	once    sync.Once
}

// NewLoader creates a loader for the metadata at location.
func NewLoader(location string, fetcher Fetcher, runner Runner, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{
		location: location,
		fetcher:  fetcher,
		runner:   runner,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Location returns the metadata location.
func (l *Loader) Location() string {
	return l.location
}

// Start launches the load and returns without waiting for it.
func (l *Loader) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	l.logger.Info(ctx, "loading atlas", "location", l.location)

	err := l.runner.StartGoroutine(ctx, "atlas-load", func(ctx context.Context) {
		sheet, err := Load(ctx, l.fetcher, l.location)
		l.finish(ctx, sheet, err)
	})
	if err != nil {
		l.finish(ctx, nil, err)
		return err
	}
	return nil
}

func (l *Loader) finish(ctx context.Context, sheet *Sheet, err error) {
	if err != nil {
		err = logging.WrapError(err, "atlas load %s", l.location)
		l.logger.Error(ctx, "atlas load failed", err, "location", l.location)
		sheet = nil
	} else {
		l.logger.Info(ctx, "atlas ready",
			"location", l.location,
			"frames", sheet.FrameCount(),
			"format", sheet.Format,
		)
	}
	l.result.Store(&result{sheet: sheet, err: err})
	l.once.Do(func() { close(l.done) })
}

// Sheet returns the loaded sheet, or nil until the load succeeds.
func (l *Loader) Sheet() *Sheet {
	if r := l.result.Load(); r != nil {
		return r.sheet
	}
	return nil
}

// Err returns the load error, or nil while loading or after success.
func (l *Loader) Err() error {
	if r := l.result.Load(); r != nil {
		return r.err
	}
	return nil
}

// Status reports the current load state.
func (l *Loader) Status() Status {
	r := l.result.Load()
	switch {
	case r != nil && r.err != nil:
		return StatusFailed
	case r != nil:
		return StatusReady
	case l.started.Load():
		return StatusLoading
	default:
		return StatusNone
	}
}

// Done is closed once the load has finished either way.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}
