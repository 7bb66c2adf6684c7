package render

import (
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/go-rotor/pkg/atlas"
	"github.com/opd-ai/go-rotor/pkg/session"
)

func TestReadouts(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want map[string]string
	}{
		{
			name: "at rest without atlas",
			snap: session.Snapshot{AtlasStatus: atlas.StatusNone},
			want: map[string]string{
				"period": "stopped",
				"frame":  "-",
				"atlas":  "none",
				"speed":  "0.000",
			},
		},
		{
			name: "spinning with atlas",
			snap: session.Snapshot{
				Deg360:        271.26,
				CircSec:       -1.67,
				RotationSpeed: 1.6667,
				HeliHeight:    0.0421,
				Period:        600 * time.Millisecond,
				Frame:         3,
				FrameCount:    8,
				FrameRate:     59.94,
				InputRate:     62,
				AtlasStatus:   atlas.StatusReady,
			},
			want: map[string]string{
				"angle":  "271.3 deg",
				"circ/s": "-1.67",
				"speed":  "1.667",
				"height": "0.042",
				"period": "600ms",
				"frame":  "3/8",
				"fps":    "59.9",
				"input":  "62.0 Hz",
				"atlas":  "ready",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Readouts(tt.snap)
			if len(lines) != 10 {
				t.Fatalf("got %d lines, want 10", len(lines))
			}
			for label, value := range tt.want {
				found := false
				for _, line := range lines {
					fields := strings.Fields(line)
					if len(fields) > 0 && fields[0] == label {
						found = true
						if got := strings.Join(fields[1:], " "); got != value {
							t.Errorf("%s = %q, want %q", label, got, value)
						}
					}
				}
				if !found {
					t.Errorf("no %s line in %q", label, lines)
				}
			}
		})
	}
}
