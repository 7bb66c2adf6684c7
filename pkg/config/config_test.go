// pkg/config/config_test.go
package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-rotor/pkg/rotor"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 60.0, cfg.Motion.Hz)
	require.Equal(t, 100*time.Millisecond, cfg.Motion.IdleTimeout)
	require.Equal(t, time.Second, cfg.Motion.RateWindow)
	require.Equal(t, rotor.DefaultTuning(), cfg.Tuning)
	require.Equal(t, RendererEngo, cfg.Renderer)

	x, y := cfg.Pivot()
	require.Equal(t, float64(cfg.Window.Width)/2, x)
	require.Equal(t, float64(cfg.Window.Height)/2, y)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "rotor.yaml", `
renderer: terminal
log_level: debug
window:
  width: 640
  height: 480
  pivot_x: 320
  pivot_y: 240
motion:
  hz: 30
  idle_timeout: 250ms
tuning:
  accel: 2
  lift_threshold: 1.2
atlas:
  source: assets/rotor.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, RendererTerminal, cfg.Renderer)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 640, cfg.Window.Width)
	require.Equal(t, 320.0, cfg.Window.PivotX)
	require.Equal(t, 30.0, cfg.Motion.Hz)
	require.Equal(t, 250*time.Millisecond, cfg.Motion.IdleTimeout)
	require.Equal(t, 2.0, cfg.Tuning.Accel)
	require.Equal(t, 1.2, cfg.Tuning.LiftThreshold)
	require.Equal(t, "assets/rotor.json", cfg.Atlas.Source)

	// Fields absent from the file keep their defaults.
	require.Equal(t, 0.5, cfg.Tuning.Decel)
	require.Equal(t, time.Second, cfg.Motion.RateWindow)
	require.Equal(t, "Rotor", cfg.Window.Title)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "window: [1, 2\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		path := writeFile(t, "invalid.yaml", "motion:\n  hz: -1\nrenderer: vulkan\n")
		_, err := Load(path)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, err.Error(), "motion.hz")
		require.Contains(t, err.Error(), "renderer")
	})
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("ROTOR_HZ", "120")
	t.Setenv("ROTOR_IDLE_TIMEOUT", "50ms")
	t.Setenv("ROTOR_RENDERER", "null")
	t.Setenv("ROTOR_ATLAS", "https://example.com/rotor.json")
	t.Setenv("ROTOR_PIVOT_X", "10.5")
	t.Setenv("ROTOR_WINDOW_WIDTH", "800")
	t.Setenv("ROTOR_LIFT_THRESHOLD", "2")
	t.Setenv("ROTOR_FETCH_MAX_RETRIES", "5")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	require.Equal(t, 120.0, cfg.Motion.Hz)
	require.Equal(t, 50*time.Millisecond, cfg.Motion.IdleTimeout)
	require.Equal(t, RendererNull, cfg.Renderer)
	require.Equal(t, "https://example.com/rotor.json", cfg.Atlas.Source)
	require.Equal(t, 10.5, cfg.Window.PivotX)
	require.Equal(t, 800, cfg.Window.Width)
	require.Equal(t, 2.0, cfg.Tuning.LiftThreshold)
	require.Equal(t, 5, cfg.Fetch.MaxRetries)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"BadInt", "ROTOR_WINDOW_HEIGHT", "tall"},
		{"BadFloat", "ROTOR_HZ", "sixty"},
		{"BadDuration", "ROTOR_IDLE_TIMEOUT", "100"},
		{"BadTuning", "ROTOR_DECEL", "1,5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			err := Default().ApplyEnv()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.key {
				t.Errorf("Field = %q, want %q", verr.Field, tt.key)
			}
			if verr.Value != tt.value {
				t.Errorf("Value = %v, want %q", verr.Value, tt.value)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "ROTOR_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-file\n")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	require.Equal(t, "from-file", os.Getenv(key))

	// Existing values win over the file.
	os.Setenv(key, "from-process")
	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, "from-process", os.Getenv(key))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{name: "Valid", mutate: func(*Config) {}},
		{name: "ZeroWidth", mutate: func(c *Config) { c.Window.Width = 0 }, field: "window.width", wantErr: true},
		{name: "NaNPivot", mutate: func(c *Config) { c.Window.PivotY = math.NaN() }, field: "window.pivot", wantErr: true},
		{name: "ZeroHz", mutate: func(c *Config) { c.Motion.Hz = 0 }, field: "motion.hz", wantErr: true},
		{name: "InfHz", mutate: func(c *Config) { c.Motion.Hz = math.Inf(1) }, field: "motion.hz", wantErr: true},
		{name: "ZeroIdleTimeout", mutate: func(c *Config) { c.Motion.IdleTimeout = 0 }, field: "motion.idle_timeout", wantErr: true},
		{name: "NegativeDecel", mutate: func(c *Config) { c.Tuning.Decel = -0.5 }, field: "tuning.decel", wantErr: true},
		{name: "FileAtlas", mutate: func(c *Config) { c.Atlas.Source = "assets/rotor.json" }},
		{name: "HTTPAtlas", mutate: func(c *Config) { c.Atlas.Source = "http://localhost:8080/rotor.json" }},
		{name: "FTPAtlas", mutate: func(c *Config) { c.Atlas.Source = "ftp://host/rotor.json" }, field: "atlas.source", wantErr: true},
		{name: "NoRetries", mutate: func(c *Config) { c.Fetch.MaxRetries = 0 }, field: "fetch.max_retries", wantErr: true},
		{name: "NoGoroutines", mutate: func(c *Config) { c.Resource.MaxGoroutines = 0 }, field: "resource.max_goroutines", wantErr: true},
		{name: "UnknownRenderer", mutate: func(c *Config) { c.Renderer = "opengl" }, field: "renderer", wantErr: true},
		{name: "BadLogLevel", mutate: func(c *Config) { c.LogLevel = "verbose" }, field: "log_level", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "motion.hz", Value: -1.0, Message: "must be positive"}
	want := "config field motion.hz (value: -1): must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
