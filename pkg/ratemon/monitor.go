// Package ratemon counts a periodic event stream and publishes its frequency
// once per window.
package ratemon

import "time"

// DefaultWindow is the publishing window.
const DefaultWindow = time.Second

// Monitor is a windowed event-frequency counter. The published rate only
// changes at window boundaries.
type Monitor struct {
	Window time.Duration
	count  int
	start  time.Time
	rate   float64
}

// New creates a monitor; window <= 0 selects DefaultWindow.
func New(window time.Duration) *Monitor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{Window: window}
}

// Record counts one event at now and publishes count/elapsed once at least
// Window has passed since the window started.
func (m *Monitor) Record(now time.Time) {
	if m.start.IsZero() {
		m.start = now
	}
	m.count++

	elapsed := now.Sub(m.start)
	if elapsed < m.Window {
		return
	}
	m.rate = float64(m.count) / elapsed.Seconds()
	m.count = 0
	m.start = now
}

// Rate returns the last published rate in events per second.
func (m *Monitor) Rate() float64 {
	return m.rate
}

// Reset clears the counter and the published rate.
func (m *Monitor) Reset() {
	m.count = 0
	m.start = time.Time{}
	m.rate = 0
}
