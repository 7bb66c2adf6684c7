// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-rotor/pkg/config"
	"github.com/opd-ai/go-rotor/pkg/logging"
)

// ErrClosed is returned by StartGoroutine after Shutdown.
var ErrClosed = errors.New("resource manager is shut down")

// Manager runs named background tasks with a concurrency limit, panic recovery
// and graceful shutdown. Tasks see their context cancelled when the manager
// shuts down.
type Manager struct {
	maxGoroutines   int64
	shutdownTimeout time.Duration

	goroutineCount int64
	panics         int64

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
	logger *logging.Logger
}

// NewManager creates a manager with the given limits.
func NewManager(cfg config.ResourceConfig, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		maxGoroutines:   int64(cfg.MaxGoroutines),
		shutdownTimeout: cfg.ShutdownTimeout,
		ctx:             ctx,
		cancel:          cancel,
		logger:          logger,
	}
}

// StartGoroutine starts fn on a tracked goroutine. It returns an error if the
// limit would be exceeded or the manager is shut down.
func (rm *Manager) StartGoroutine(ctx context.Context, name string, fn func(context.Context)) error {
	rm.mu.RLock()
	closed := rm.closed
	rm.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	if n := atomic.AddInt64(&rm.goroutineCount, 1); n > rm.maxGoroutines {
		atomic.AddInt64(&rm.goroutineCount, -1)
		rm.logger.Warn(ctx, "Goroutine limit exceeded",
			"current", n-1,
			"limit", rm.maxGoroutines,
			"name", name,
		)
		return fmt.Errorf("goroutine limit exceeded: %d/%d", n-1, rm.maxGoroutines)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(rm.ctx, cancel)

	go func() {
		defer atomic.AddInt64(&rm.goroutineCount, -1)
		defer stop()
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				atomic.AddInt64(&rm.panics, 1)
				rm.logger.Error(ctx, "Goroutine panic",
					fmt.Errorf("panic: %v", r),
					"name", name,
				)
			}
		}()

		fn(taskCtx)
	}()

	return nil
}

// GetGoroutineCount returns the current number of tracked goroutines.
func (rm *Manager) GetGoroutineCount() int64 {
	return atomic.LoadInt64(&rm.goroutineCount)
}

// Stats returns current usage.
func (rm *Manager) Stats() Stats {
	return Stats{
		GoroutineCount: rm.GetGoroutineCount(),
		MaxGoroutines:  rm.maxGoroutines,
		Panics:         atomic.LoadInt64(&rm.panics),
	}
}

// Stats contains resource usage statistics.
type Stats struct {
	GoroutineCount int64
	MaxGoroutines  int64
	Panics         int64
}

// Shutdown cancels all task contexts and waits for them to return, bounded by
// the configured shutdown timeout and ctx. Safe to call more than once.
func (rm *Manager) Shutdown(ctx context.Context) error {
	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return nil
	}
	rm.closed = true
	rm.mu.Unlock()

	rm.logger.Info(ctx, "Shutting down resource manager",
		"remaining", rm.GetGoroutineCount(),
	)

	rm.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, rm.shutdownTimeout)
	defer cancel()

	return rm.waitForGoroutines(shutdownCtx)
}

// waitForGoroutines waits for all tracked goroutines to finish or timeout.
func (rm *Manager) waitForGoroutines(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		count := rm.GetGoroutineCount()
		if count == 0 {
			rm.logger.Debug(ctx, "All tracked goroutines finished")
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			remaining := rm.GetGoroutineCount()
			rm.logger.Warn(ctx, "Shutdown timeout exceeded with goroutines still running",
				"remaining", remaining,
			)
			return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
		}
	}
}
