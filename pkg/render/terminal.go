package render

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-rotor/pkg/physics"
	"github.com/opd-ai/go-rotor/pkg/session"
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	width       int
	height      int
	buffer      [][]rune
	scale       float64
	centerPos   physics.Vector2D
	heightScale float64
	bladeLength int
	out         io.Writer
	clearScreen bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions.
// scale is world units per character; output goes to out.
func NewTerminalRenderer(width, height int, scale float64, out io.Writer) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:       width,
		height:      height,
		buffer:      buffer,
		scale:       scale,
		heightScale: 20,
		bladeLength: 4,
		out:         out,
		clearScreen: true,
	}
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// SetClearScreen controls whether each frame starts with an ANSI clear.
func (r *TerminalRenderer) SetClearScreen(enabled bool) {
	r.clearScreen = enabled
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor((pos.Y-r.centerPos.Y)/r.scale + float64(r.height)/2))
	return screenX, screenY
}

// Clear blanks the buffer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

func (r *TerminalRenderer) plot(x, y int, c rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = c
	}
}

// Draw implements Renderer.
func (r *TerminalRenderer) Draw(snap session.Snapshot) error {
	r.Clear()

	hubX, hubY := r.worldToScreen(snap.Pivot)
	hubY -= int(math.Round(snap.HeliHeight * r.heightScale))

	r.drawBlades(hubX, hubY, bladeAngle(snap))
	r.plot(hubX, hubY, 'O')

	if snap.HasPointer && !snap.Pointer.IsNaN() {
		r.plotPointer(r.worldToScreen(snap.Pointer))
	}

	return r.Present(snap)
}

func (r *TerminalRenderer) plotPointer(x, y int) {
	r.plot(x, y, '+')
}

// bladeAngle turns the sprite frame into a blade direction so the ASCII rotor
// spins at the animation rate. Without an atlas the blades stay level.
func bladeAngle(snap session.Snapshot) float64 {
	if snap.FrameCount <= 0 || snap.Frame <= 0 {
		return 0
	}
	return float64(snap.Frame-1) * math.Pi / float64(snap.FrameCount)
}

func (r *TerminalRenderer) drawBlades(cx, cy int, angle float64) {
	glyph := bladeGlyph(angle)
	for i := 1; i <= r.bladeLength; i++ {
		dx := math.Cos(angle) * float64(i) * 2 // characters are about twice as tall as wide
		dy := math.Sin(angle) * float64(i)
		r.plot(cx+int(math.Round(dx)), cy+int(math.Round(dy)), glyph)
		r.plot(cx-int(math.Round(dx)), cy-int(math.Round(dy)), glyph)
	}
}

func bladeGlyph(angle float64) rune {
	a := math.Mod(angle, math.Pi)
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return '-'
	case a < 3*math.Pi/8:
		return '\\'
	case a < 5*math.Pi/8:
		return '|'
	default:
		return '/'
	}
}

// Present writes the buffer, a height bar and the readouts to the output.
func (r *TerminalRenderer) Present(snap session.Snapshot) error {
	w := bufio.NewWriter(r.out)

	if r.clearScreen {
		w.WriteString("\033[H\033[2J")
	}

	bar := heightBar(snap.HeliHeight, r.heightScale, r.height)

	w.WriteString("+" + strings.Repeat("-", r.width) + "+-+\n")
	for y := range r.buffer {
		w.WriteString("|")
		w.WriteString(string(r.buffer[y]))
		w.WriteString("|")
		w.WriteRune(bar[y])
		w.WriteString("|\n")
	}
	w.WriteString("+" + strings.Repeat("-", r.width) + "+-+\n")

	for _, line := range Readouts(snap) {
		w.WriteString(line)
		w.WriteByte('\n')
	}

	return w.Flush()
}

// heightBar fills rows from the bottom in proportion to height.
func heightBar(height, scale float64, rows int) []rune {
	bar := make([]rune, rows)
	filled := int(math.Round(height * scale))
	if filled > rows {
		filled = rows
	}
	for i := range bar {
		if rows-i <= filled {
			bar[i] = '#'
		} else {
			bar[i] = ' '
		}
	}
	return bar
}
