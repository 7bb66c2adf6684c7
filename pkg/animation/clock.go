// Package animation advances a sprite frame index on a period derived from
// rotor speed, independent of how often the host renders.
package animation

import "time"

// Clock steps a 1-based frame index through [1, FrameCount].
type Clock struct {
	frameCount  int
	frame       int
	period      time.Duration
	accumulated time.Duration
	last        time.Time
}

// NewClock returns an inert clock; it activates once SetFrameCount is called
// with a positive count.
func NewClock() *Clock {
	return &Clock{}
}

// SetFrameCount activates the clock with n frames and rewinds to frame 1.
// n <= 0 makes the clock inert again.
func (c *Clock) SetFrameCount(n int) {
	if n <= 0 {
		c.frameCount = 0
		c.frame = 0
		return
	}
	c.frameCount = n
	c.frame = 1
	c.accumulated = 0
}

// SetPeriod retunes the time per frame. Zero freezes the animation.
func (c *Clock) SetPeriod(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.period = d
}

// Period returns the current time per frame.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Ready reports whether a frame count has been supplied.
func (c *Clock) Ready() bool {
	return c.frameCount > 0
}

// Frame returns the current frame, or 0 while inert.
func (c *Clock) Frame() int {
	return c.frame
}

// FrameCount returns the number of frames, 0 while inert.
func (c *Clock) FrameCount() int {
	return c.frameCount
}

// Tick accumulates the wall time since the previous tick and advances one
// frame per whole period elapsed, wrapping past FrameCount back to 1.
func (c *Clock) Tick(now time.Time) int {
	var elapsed time.Duration
	if !c.last.IsZero() {
		elapsed = now.Sub(c.last)
	}
	c.last = now

	if !c.Ready() {
		return 0
	}
	if c.period <= 0 {
		// Frozen; drop the backlog so a restart does not burst.
		c.accumulated = 0
		return c.frame
	}

	c.accumulated += elapsed
	for c.accumulated > c.period {
		c.accumulated -= c.period
		c.frame++
		if c.frame > c.frameCount {
			c.frame = 1
		}
	}
	return c.frame
}
