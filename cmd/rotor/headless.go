// cmd/rotor/headless.go
package main

import (
	"context"
	"math"
	"time"

	"github.com/opd-ai/go-rotor/pkg/logging"
	"github.com/opd-ai/go-rotor/pkg/render"
	"github.com/opd-ai/go-rotor/pkg/replay"
	"github.com/opd-ai/go-rotor/pkg/rotor"
	"github.com/opd-ai/go-rotor/pkg/session"
)

// terminalFPS caps how often the terminal is repainted.
const terminalFPS = 15

// headless drives a session from a replayed gesture script on a ticker.
type headless struct {
	sess      *session.Session
	renderer  render.Renderer
	script    func(time.Time) replay.Script
	interval  time.Duration
	drawEvery int
	logger    *logging.Logger

	player *replay.Player
	frames int
	passes int
}

// run ticks until ctx is done. A finished script is restarted from the
// current time so the rotor keeps spinning.
func (h *headless) run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.player = replay.NewPlayer(h.script(time.Now()))

	for {
		select {
		case <-ctx.Done():
			h.logger.Info(ctx, "Headless run finished",
				"frames", h.frames,
				"passes", h.passes,
			)
			return nil
		case now := <-ticker.C:
			if err := h.step(now); err != nil {
				return err
			}
		}
	}
}

// step feeds due gestures, advances the session one frame and draws it.
func (h *headless) step(now time.Time) error {
	h.player.Feed(h.sess, now)
	if h.player.Done() {
		h.passes++
		h.player = replay.NewPlayer(h.script(now))
	}

	snap := h.sess.OnFrame(now)
	h.frames++
	if h.drawEvery > 1 && h.frames%h.drawEvery != 0 {
		return nil
	}
	return h.renderer.Draw(snap)
}

// frameInterval converts a sampling rate into a ticker period.
func frameInterval(hz float64) time.Duration {
	if hz <= 0 {
		hz = rotor.DefaultHz
	}
	return time.Duration(float64(time.Second) / hz)
}

// terminalDrawEvery returns how many frames pass between terminal repaints.
func terminalDrawEvery(hz float64) int {
	n := int(math.Round(hz / terminalFPS))
	if n < 1 {
		return 1
	}
	return n
}
