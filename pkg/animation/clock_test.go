package animation

import (
	"testing"
	"time"
)

var epoch = time.Unix(1700000000, 0)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestClock_InertUntilFrameCount(t *testing.T) {
	c := NewClock()
	c.SetPeriod(10 * time.Millisecond)

	for ms := 0; ms < 200; ms += 16 {
		if got := c.Tick(at(ms)); got != 0 {
			t.Fatalf("Tick(%dms) = %d on an inert clock, want 0", ms, got)
		}
	}
	if c.Ready() {
		t.Error("Ready() = true before SetFrameCount")
	}

	c.SetFrameCount(4)
	if !c.Ready() || c.Frame() != 1 {
		t.Errorf("Ready()=%v Frame()=%d after SetFrameCount, want true/1", c.Ready(), c.Frame())
	}
}

func TestClock_ZeroPeriodFreezes(t *testing.T) {
	c := NewClock()
	c.SetFrameCount(6)
	c.SetPeriod(0)

	for ms := 0; ms <= 10000; ms += 250 {
		if got := c.Tick(at(ms)); got != 1 {
			t.Fatalf("Tick(%dms) = %d with zero period, want 1", ms, got)
		}
	}
}

func TestClock_AdvancesPerPeriod(t *testing.T) {
	c := NewClock()
	c.SetFrameCount(10)
	c.SetPeriod(50 * time.Millisecond)

	c.Tick(at(0))
	if got := c.Tick(at(50)); got != 1 {
		t.Errorf("Tick(50ms) = %d, want 1 (strictly greater than period required)", got)
	}
	if got := c.Tick(at(51)); got != 2 {
		t.Errorf("Tick(51ms) = %d, want 2", got)
	}
	if got := c.Tick(at(202)); got != 5 {
		t.Errorf("Tick(202ms) = %d, want 5", got)
	}
}

func TestClock_WrapsToFirstFrame(t *testing.T) {
	c := NewClock()
	c.SetFrameCount(3)
	c.SetPeriod(10 * time.Millisecond)

	c.Tick(at(0))
	want := []int{2, 3, 1, 2, 3, 1}
	for i, w := range want {
		ms := (i+1)*10 + 1
		if got := c.Tick(at(ms)); got != w {
			t.Errorf("Tick(%dms) = %d, want %d", ms, got, w)
		}
	}
}

func TestClock_FrameStaysInRange(t *testing.T) {
	c := NewClock()
	c.SetFrameCount(7)
	c.SetPeriod(3 * time.Millisecond)

	for ms := 0; ms < 5000; ms += 17 {
		f := c.Tick(at(ms))
		if f < 1 || f > 7 {
			t.Fatalf("Tick(%dms) = %d, outside [1,7]", ms, f)
		}
	}
}

func TestClock_RestartAfterFreezeDoesNotBurst(t *testing.T) {
	c := NewClock()
	c.SetFrameCount(8)
	c.SetPeriod(0)

	c.Tick(at(0))
	c.Tick(at(5000))

	c.SetPeriod(100 * time.Millisecond)
	if got := c.Tick(at(5016)); got != 1 {
		t.Errorf("Tick after unfreezing = %d, want 1", got)
	}
}

func TestClock_SetFrameCountNonPositive(t *testing.T) {
	c := NewClock()
	c.SetFrameCount(4)
	c.SetFrameCount(0)
	if c.Ready() || c.Frame() != 0 {
		t.Errorf("Ready()=%v Frame()=%d, want inert", c.Ready(), c.Frame())
	}
}
