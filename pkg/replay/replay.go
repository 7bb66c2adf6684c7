// Package replay produces timed pointer gestures and feeds them to an input
// target, for headless hosts and tests.
package replay

import (
	"math"
	"time"

	"github.com/opd-ai/go-rotor/pkg/motion"
	"github.com/opd-ai/go-rotor/pkg/physics"
)

// Kind is the input event type of a step.
type Kind int

const (
	Start Kind = iota
	Move
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Move:
		return "move"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Step is one input event. Sample.At is its due time; Cancel steps only use At.
type Step struct {
	Kind   Kind
	Sample motion.PointerSample
}

// Script is a time-ordered list of steps.
type Script []Step

// Duration is the time from the first to the last step.
func (s Script) Duration() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Sample.At.Sub(s[0].Sample.At)
}

// Shift returns a copy of s with every step moved by d.
func (s Script) Shift(d time.Duration) Script {
	out := make(Script, len(s))
	for i, st := range s {
		st.Sample.At = st.Sample.At.Add(d)
		out[i] = st
	}
	return out
}

// Target receives replayed input. *session.Session satisfies it.
type Target interface {
	OnStart(samples ...motion.PointerSample)
	OnMove(samples ...motion.PointerSample)
	OnCancel()
}

// Builder appends gesture segments on a running clock.
type Builder struct {
	center physics.Vector2D
	at     time.Time
	steps  Script
}

// NewBuilder starts a script at start, with circles drawn around center.
func NewBuilder(center physics.Vector2D, start time.Time) *Builder {
	return &Builder{center: center, at: start}
}

// Circle appends a contact that starts at startDeg on a circle of radius and
// moves degPerStep every interval for steps moves. Screen coordinates have y
// pointing down, so negative degPerStep is counter-clockwise on screen.
func (b *Builder) Circle(radius, startDeg, degPerStep float64, interval time.Duration, steps int) *Builder {
	deg := startDeg
	b.add(Start, b.point(radius, deg))
	for i := 0; i < steps; i++ {
		b.at = b.at.Add(interval)
		deg += degPerStep
		b.add(Move, b.point(radius, deg))
	}
	return b
}

// Hold appends moves that keep the contact at one point.
func (b *Builder) Hold(radius, deg float64, interval time.Duration, steps int) *Builder {
	for i := 0; i < steps; i++ {
		b.at = b.at.Add(interval)
		b.add(Move, b.point(radius, deg))
	}
	return b
}

// Pause advances the clock without input.
func (b *Builder) Pause(d time.Duration) *Builder {
	b.at = b.at.Add(d)
	return b
}

// Cancel appends a cancel event.
func (b *Builder) Cancel() *Builder {
	b.steps = append(b.steps, Step{Kind: Cancel, Sample: motion.PointerSample{At: b.at}})
	return b
}

// Now returns the builder's clock.
func (b *Builder) Now() time.Time {
	return b.at
}

// Script returns the steps built so far.
func (b *Builder) Script() Script {
	return append(Script(nil), b.steps...)
}

func (b *Builder) add(k Kind, p physics.Vector2D) {
	b.steps = append(b.steps, Step{
		Kind:   k,
		Sample: motion.PointerSample{X: p.X, Y: p.Y, At: b.at},
	})
}

func (b *Builder) point(radius, deg float64) physics.Vector2D {
	return b.center.Add(physics.Vector2D{X: radius}.Rotate(deg * math.Pi / 180))
}

// Player delivers a script to a target as time passes.
type Player struct {
	script Script
	next   int
}

// NewPlayer creates a player positioned at the first step.
func NewPlayer(s Script) *Player {
	return &Player{script: s}
}

// Feed delivers every pending step due at or before now and returns how many
// were delivered.
func (p *Player) Feed(t Target, now time.Time) int {
	n := 0
	for p.next < len(p.script) {
		st := p.script[p.next]
		if st.Sample.At.After(now) {
			break
		}
		switch st.Kind {
		case Start:
			t.OnStart(st.Sample)
		case Move:
			t.OnMove(st.Sample)
		case Cancel:
			t.OnCancel()
		}
		p.next++
		n++
	}
	return n
}

// Done reports whether every step has been delivered.
func (p *Player) Done() bool {
	return p.next >= len(p.script)
}

// Rewind restarts playback from the first step.
func (p *Player) Rewind() {
	p.next = 0
}
