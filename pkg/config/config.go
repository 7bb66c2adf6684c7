// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-rotor/pkg/rotor"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ROTOR_"

// Renderer names accepted by Config.Renderer.
const (
	RendererEngo     = "engo"
	RendererTerminal = "terminal"
	RendererNull     = "null"
)

// Config holds every tunable of the rotor host.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Motion   MotionConfig   `yaml:"motion"`
	Tuning   rotor.Tuning   `yaml:"tuning"`
	Atlas    AtlasConfig    `yaml:"atlas"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Resource ResourceConfig `yaml:"resource"`
	Renderer string         `yaml:"renderer"`
	LogLevel string         `yaml:"log_level"`
}

// WindowConfig describes the host surface. The pivot defaults to its center.
type WindowConfig struct {
	Title  string  `yaml:"title"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	PivotX float64 `yaml:"pivot_x"`
	PivotY float64 `yaml:"pivot_y"`
}

// MotionConfig contains sampling and watchdog settings.
type MotionConfig struct {
	Hz          float64       `yaml:"hz"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	RateWindow  time.Duration `yaml:"rate_window"`
}

// AtlasConfig points at the sprite atlas metadata. Source is a file path or an
// http(s) URL; empty disables the sprite.
type AtlasConfig struct {
	Source string `yaml:"source"`
}

// FetchConfig configures remote atlas fetching and its circuit breaker.
type FetchConfig struct {
	Timeout            time.Duration `yaml:"timeout"`
	MaxRetries         int           `yaml:"max_retries"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
	BreakerMaxRequests int           `yaml:"breaker_max_requests"`
	BreakerInterval    time.Duration `yaml:"breaker_interval"`
	BreakerTimeout     time.Duration `yaml:"breaker_timeout"`
	BreakerMaxFailures int           `yaml:"breaker_max_failures"`
}

// ResourceConfig bounds background work.
type ResourceConfig struct {
	MaxGoroutines   int           `yaml:"max_goroutines"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Rotor",
			Width:  400,
			Height: 400,
			PivotX: 200,
			PivotY: 200,
		},
		Motion: MotionConfig{
			Hz:          rotor.DefaultHz,
			IdleTimeout: 100 * time.Millisecond,
			RateWindow:  time.Second,
		},
		Tuning: rotor.DefaultTuning(),
		Fetch: FetchConfig{
			Timeout:            10 * time.Second,
			MaxRetries:         3,
			RetryDelay:         500 * time.Millisecond,
			BreakerMaxRequests: 1,
			BreakerInterval:    time.Minute,
			BreakerTimeout:     30 * time.Second,
			BreakerMaxFailures: 5,
		},
		Resource: ResourceConfig{
			MaxGoroutines:   8,
			ShutdownTimeout: 5 * time.Second,
		},
		Renderer: RendererEngo,
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, the optional YAML file at path, a .env file
// in the working directory if present, and ROTOR_* environment variables, in that
// order. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// LoadDotEnv loads variables from the given files into the process environment
// without overriding values that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from ROTOR_* environment variables.
func (c *Config) ApplyEnv() error {
	var err error

	c.Window.Title = getEnvString("WINDOW_TITLE", c.Window.Title)
	c.Renderer = getEnvString("RENDERER", c.Renderer)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	c.Atlas.Source = getEnvString("ATLAS", c.Atlas.Source)

	setters := []func() error{
		func() error { c.Window.Width, err = getEnvInt("WINDOW_WIDTH", c.Window.Width); return err },
		func() error { c.Window.Height, err = getEnvInt("WINDOW_HEIGHT", c.Window.Height); return err },
		func() error { c.Window.PivotX, err = getEnvFloat("PIVOT_X", c.Window.PivotX); return err },
		func() error { c.Window.PivotY, err = getEnvFloat("PIVOT_Y", c.Window.PivotY); return err },
		func() error { c.Motion.Hz, err = getEnvFloat("HZ", c.Motion.Hz); return err },
		func() error { c.Motion.IdleTimeout, err = getEnvDuration("IDLE_TIMEOUT", c.Motion.IdleTimeout); return err },
		func() error { c.Motion.RateWindow, err = getEnvDuration("RATE_WINDOW", c.Motion.RateWindow); return err },
		func() error { c.Tuning.Accel, err = getEnvFloat("ACCEL", c.Tuning.Accel); return err },
		func() error { c.Tuning.Decel, err = getEnvFloat("DECEL", c.Tuning.Decel); return err },
		func() error { c.Tuning.LiftThreshold, err = getEnvFloat("LIFT_THRESHOLD", c.Tuning.LiftThreshold); return err },
		func() error { c.Tuning.RiseRate, err = getEnvFloat("RISE_RATE", c.Tuning.RiseRate); return err },
		func() error { c.Tuning.FallRate, err = getEnvFloat("FALL_RATE", c.Tuning.FallRate); return err },
		func() error { c.Fetch.Timeout, err = getEnvDuration("FETCH_TIMEOUT", c.Fetch.Timeout); return err },
		func() error { c.Fetch.MaxRetries, err = getEnvInt("FETCH_MAX_RETRIES", c.Fetch.MaxRetries); return err },
		func() error { c.Fetch.RetryDelay, err = getEnvDuration("FETCH_RETRY_DELAY", c.Fetch.RetryDelay); return err },
		func() error {
			c.Resource.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.Resource.ShutdownTimeout)
			return err
		},
	}

	for _, set := range setters {
		if err := set(); err != nil {
			return err
		}
	}

	return nil
}

// Pivot returns the configured rotation center.
func (c *Config) Pivot() (x, y float64) {
	return c.Window.PivotX, c.Window.PivotY
}

func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ValidationError{Field: EnvPrefix + key, Value: value, Message: "must be an integer"}
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &ValidationError{Field: EnvPrefix + key, Value: value, Message: "must be a number"}
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, &ValidationError{Field: EnvPrefix + key, Value: value, Message: "must be a duration such as 100ms"}
	}
	return d, nil
}
