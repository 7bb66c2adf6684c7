// pkg/config/validate.go
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/opd-ai/go-rotor/pkg/logging"
)

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

// Validate checks every field and joins all violations into one error.
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, value interface{}, msg string) {
		errs = append(errs, &ValidationError{Field: field, Value: value, Message: msg})
	}

	if c.Window.Width <= 0 {
		add("window.width", c.Window.Width, "must be positive")
	}
	if c.Window.Height <= 0 {
		add("window.height", c.Window.Height, "must be positive")
	}
	if !finite(c.Window.PivotX) || !finite(c.Window.PivotY) {
		add("window.pivot", fmt.Sprintf("%v,%v", c.Window.PivotX, c.Window.PivotY), "must be finite")
	}

	if !finite(c.Motion.Hz) || c.Motion.Hz <= 0 {
		add("motion.hz", c.Motion.Hz, "must be positive")
	}
	if c.Motion.IdleTimeout <= 0 {
		add("motion.idle_timeout", c.Motion.IdleTimeout, "must be positive")
	}
	if c.Motion.RateWindow <= 0 {
		add("motion.rate_window", c.Motion.RateWindow, "must be positive")
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"tuning.accel", c.Tuning.Accel},
		{"tuning.decel", c.Tuning.Decel},
		{"tuning.lift_threshold", c.Tuning.LiftThreshold},
		{"tuning.rise_rate", c.Tuning.RiseRate},
		{"tuning.fall_rate", c.Tuning.FallRate},
	} {
		if !finite(f.value) || f.value < 0 {
			add(f.name, f.value, "must be a non-negative number")
		}
	}

	if src := c.Atlas.Source; src != "" && strings.Contains(src, "://") {
		u, err := url.Parse(src)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("atlas.source", src, "must be a file path or an http(s) URL")
		}
	}

	if c.Fetch.Timeout <= 0 {
		add("fetch.timeout", c.Fetch.Timeout, "must be positive")
	}
	if c.Fetch.MaxRetries < 1 {
		add("fetch.max_retries", c.Fetch.MaxRetries, "must be at least 1")
	}
	if c.Fetch.RetryDelay < 0 {
		add("fetch.retry_delay", c.Fetch.RetryDelay, "must not be negative")
	}
	if c.Fetch.BreakerMaxFailures < 1 {
		add("fetch.breaker_max_failures", c.Fetch.BreakerMaxFailures, "must be at least 1")
	}

	if c.Resource.MaxGoroutines < 1 {
		add("resource.max_goroutines", c.Resource.MaxGoroutines, "must be at least 1")
	}
	if c.Resource.ShutdownTimeout <= 0 {
		add("resource.shutdown_timeout", c.Resource.ShutdownTimeout, "must be positive")
	}

	switch c.Renderer {
	case RendererEngo, RendererTerminal, RendererNull:
	default:
		add("renderer", c.Renderer, "must be one of engo, terminal, null")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		add("log_level", c.LogLevel, "must be debug, info, warn or error")
	}

	return errors.Join(errs...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
