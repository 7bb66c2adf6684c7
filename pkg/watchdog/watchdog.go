// Package watchdog detects a stalled input stream.
package watchdog

import "time"

// DefaultTimeout is how long input may be silent before the stream counts as idle.
const DefaultTimeout = 100 * time.Millisecond

// Watchdog tracks the last input event and fires at most once per Timeout
// window while no new events arrive.
type Watchdog struct {
	Timeout time.Duration
	last    time.Time
}

// New creates a watchdog; timeout <= 0 selects DefaultTimeout.
func New(timeout time.Duration) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Watchdog{Timeout: timeout}
}

// Touch records an input event at now.
func (w *Watchdog) Touch(now time.Time) {
	w.last = now
}

// Check reports whether the stream has been silent for at least Timeout.
// When it fires the window restarts at now, so a continuously idle stream
// fires once per Timeout rather than on every call. A watchdog that has never
// been touched fires on its first check.
func (w *Watchdog) Check(now time.Time) bool {
	if !w.last.IsZero() && now.Sub(w.last) < w.Timeout {
		return false
	}
	w.last = now
	return true
}

// LastEvent returns the timestamp of the last touch or idle firing.
func (w *Watchdog) LastEvent() time.Time {
	return w.last
}
