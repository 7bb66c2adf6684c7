package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-rotor/pkg/physics"
)

// Segment is one entry of a YAML gesture file. Exactly one field is set.
//
//	- circle: {radius: 120, start_deg: 0, deg_per_step: -10, interval: 16ms, steps: 200}
//	- pause: 1s
//	- cancel: true
type Segment struct {
	Circle *CircleSegment `yaml:"circle,omitempty"`
	Pause  time.Duration  `yaml:"pause,omitempty"`
	Cancel bool           `yaml:"cancel,omitempty"`
}

// CircleSegment parameterises Builder.Circle.
type CircleSegment struct {
	Radius     float64       `yaml:"radius"`
	StartDeg   float64       `yaml:"start_deg"`
	DegPerStep float64       `yaml:"deg_per_step"`
	Interval   time.Duration `yaml:"interval"`
	Steps      int           `yaml:"steps"`
}

// ParseScript decodes a YAML list of segments into a script starting at start.
func ParseScript(data []byte, center physics.Vector2D, start time.Time) (Script, error) {
	var segs []Segment
	if err := yaml.Unmarshal(data, &segs); err != nil {
		return nil, fmt.Errorf("failed to parse gesture script: %w", err)
	}
	if len(segs) == 0 {
		return nil, errors.New("gesture script is empty")
	}

	b := NewBuilder(center, start)
	for i, seg := range segs {
		set := 0
		if seg.Circle != nil {
			set++
		}
		if seg.Pause != 0 {
			set++
		}
		if seg.Cancel {
			set++
		}
		if set != 1 {
			return nil, fmt.Errorf("segment %d: exactly one of circle, pause or cancel must be set", i)
		}

		switch {
		case seg.Circle != nil:
			c := seg.Circle
			if c.Radius <= 0 || c.Interval <= 0 || c.Steps < 1 {
				return nil, fmt.Errorf("segment %d: circle needs positive radius, interval and steps", i)
			}
			b.Circle(c.Radius, c.StartDeg, c.DegPerStep, c.Interval, c.Steps)
		case seg.Pause < 0:
			return nil, fmt.Errorf("segment %d: negative pause", i)
		case seg.Pause > 0:
			b.Pause(seg.Pause)
		default:
			b.Cancel()
		}
	}
	return b.Script(), nil
}

// LoadScript reads a YAML gesture file.
func LoadScript(path string, center physics.Vector2D, start time.Time) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gesture script: %w", err)
	}
	return ParseScript(data, center, start)
}

// DemoScript spins the rotor up past lift-off, lets it coast, then spins it
// again and cancels.
func DemoScript(center physics.Vector2D, start time.Time, radius float64) Script {
	return NewBuilder(center, start).
		Circle(radius, 0, -10, 16*time.Millisecond, 240).
		Pause(2*time.Second).
		Circle(radius, 90, -12, 16*time.Millisecond, 180).
		Pause(500*time.Millisecond).
		Cancel().
		Script()
}
