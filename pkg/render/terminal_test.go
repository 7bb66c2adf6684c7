package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/opd-ai/go-rotor/pkg/physics"
	"github.com/opd-ai/go-rotor/pkg/session"
)

func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		scale  float64
	}{
		{name: "small renderer", width: 10, height: 5, scale: 1.0},
		{name: "medium renderer", width: 80, height: 24, scale: 10.0},
		{name: "large renderer", width: 120, height: 40, scale: 5.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(tt.width, tt.height, tt.scale, &bytes.Buffer{})

			if renderer.width != tt.width || renderer.height != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, renderer.width, renderer.height)
			}
			if renderer.scale != tt.scale {
				t.Errorf("expected scale %f, got %f", tt.scale, renderer.scale)
			}
			if len(renderer.buffer) != tt.height {
				t.Errorf("expected buffer height %d, got %d", tt.height, len(renderer.buffer))
			}
			for i, row := range renderer.buffer {
				if len(row) != tt.width {
					t.Errorf("row %d: expected width %d, got %d", i, tt.width, len(row))
				}
			}
		})
	}
}

func TestWorldToScreen_ConvertsCoordinates_Correctly(t *testing.T) {
	r := NewTerminalRenderer(21, 11, 10, &bytes.Buffer{})
	r.SetCenter(physics.Vector2D{X: 200, Y: 200})

	tests := []struct {
		name  string
		pos   physics.Vector2D
		wantX int
		wantY int
	}{
		{"center", physics.Vector2D{X: 200, Y: 200}, 10, 5},
		{"right", physics.Vector2D{X: 300, Y: 200}, 20, 5},
		{"left edge", physics.Vector2D{X: 95, Y: 200}, 0, 5},
		{"off screen left", physics.Vector2D{X: 90, Y: 200}, -1, 5},
		{"down", physics.Vector2D{X: 200, Y: 250}, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := r.worldToScreen(tt.pos)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("worldToScreen(%v) = (%d, %d), want (%d, %d)", tt.pos, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

// drawLines renders snap on a 21x11 grid centered on (200, 200) and returns
// the output split into lines.
func drawLines(t *testing.T, snap session.Snapshot) []string {
	t.Helper()
	var buf bytes.Buffer
	r := NewTerminalRenderer(21, 11, 10, &buf)
	r.SetCenter(physics.Vector2D{X: 200, Y: 200})
	r.SetClearScreen(false)

	if err := r.Draw(snap); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

// cell returns the character at grid column x, row y.
func cell(lines []string, x, y int) byte {
	return lines[1+y][1+x]
}

func TestDraw_RotorAtRest(t *testing.T) {
	lines := drawLines(t, session.Snapshot{Pivot: physics.Vector2D{X: 200, Y: 200}})

	if len(lines) != 13+10 {
		t.Fatalf("got %d lines, want 13 grid lines plus 10 readouts", len(lines))
	}
	if lines[0] != "+"+strings.Repeat("-", 21)+"+-+" {
		t.Errorf("top border = %q", lines[0])
	}
	if got := cell(lines, 10, 5); got != 'O' {
		t.Errorf("hub = %q, want 'O'", got)
	}
	for _, x := range []int{2, 4, 6, 8, 12, 14, 16, 18} {
		if got := cell(lines, x, 5); got != '-' {
			t.Errorf("blade at column %d = %q, want '-'", x, got)
		}
	}
	for y := 0; y < 11; y++ {
		if bar := lines[1+y][23]; bar != ' ' {
			t.Errorf("height bar row %d = %q, want empty", y, bar)
		}
	}
	if !strings.HasPrefix(lines[13], "angle") {
		t.Errorf("first readout = %q", lines[13])
	}
}

func TestDraw_LiftRaisesHubAndFillsBar(t *testing.T) {
	lines := drawLines(t, session.Snapshot{
		Pivot:      physics.Vector2D{X: 200, Y: 200},
		HeliHeight: 0.1,
	})

	if got := cell(lines, 10, 3); got != 'O' {
		t.Errorf("hub at row 3 = %q, want 'O' (raised two rows)", got)
	}
	if got := cell(lines, 10, 5); got != ' ' {
		t.Errorf("rest position = %q, want blank", got)
	}
	filled := 0
	for y := 0; y < 11; y++ {
		if lines[1+y][23] == '#' {
			filled++
		}
	}
	if filled != 2 {
		t.Errorf("height bar filled %d rows, want 2", filled)
	}
}

func TestDraw_PointerMarker(t *testing.T) {
	lines := drawLines(t, session.Snapshot{
		Pivot:      physics.Vector2D{X: 200, Y: 200},
		Pointer:    physics.Vector2D{X: 300, Y: 200},
		HasPointer: true,
	})
	if got := cell(lines, 20, 5); got != '+' {
		t.Errorf("pointer = %q, want '+'", got)
	}

	// NaN pointers are skipped rather than plotted at a garbage cell.
	drawLines(t, session.Snapshot{
		Pointer:    physics.Vector2D{X: math.NaN(), Y: 0},
		HasPointer: true,
	})
}

func TestDraw_ClearScreenPrefix(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(4, 2, 1, &buf)
	if err := r.Draw(session.Snapshot{}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\033[H\033[2J") {
		t.Error("missing ANSI clear sequence")
	}
}

func TestBladeAngleAndGlyph(t *testing.T) {
	tests := []struct {
		name  string
		snap  session.Snapshot
		glyph rune
	}{
		{"no atlas", session.Snapshot{}, '-'},
		{"first frame", session.Snapshot{Frame: 1, FrameCount: 4}, '-'},
		{"second frame", session.Snapshot{Frame: 2, FrameCount: 4}, '\\'},
		{"third frame", session.Snapshot{Frame: 3, FrameCount: 4}, '|'},
		{"fourth frame", session.Snapshot{Frame: 4, FrameCount: 4}, '/'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bladeGlyph(bladeAngle(tt.snap)); got != tt.glyph {
				t.Errorf("glyph = %q, want %q", got, tt.glyph)
			}
		})
	}
}

func TestHeightBar(t *testing.T) {
	tests := []struct {
		height float64
		want   string
	}{
		{0, "     "},
		{0.05, "    #"},
		{0.1, "   ##"},
		{10, "#####"},
	}
	for _, tt := range tests {
		if got := string(heightBar(tt.height, 20, 5)); got != tt.want {
			t.Errorf("heightBar(%v) = %q, want %q", tt.height, got, tt.want)
		}
	}
}
