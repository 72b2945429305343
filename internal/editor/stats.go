package editor

import "time"

// Clock measures the time between frames.
type Clock struct {
	now  func() time.Time
	last time.Time
}

// NewClock creates a clock started at now(). time.Now readings carry the
// monotonic clock, so wall clock changes do not leak into frame times.
func NewClock(now func() time.Time) *Clock {
	return &Clock{now: now, last: now()}
}

// Tick returns the time since the previous Tick. A clock that went
// backwards yields zero.
func (c *Clock) Tick() time.Duration {
	t := c.now()
	dt := t.Sub(c.last)
	c.last = t
	if dt < 0 {
		return 0
	}
	return dt
}

// Reset restarts the measurement at now(), dropping the time elapsed
// since the last Tick.
func (c *Clock) Reset() {
	c.last = c.now()
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	return c.now()
}

// FrameStats counts frames and averages frame times over one-second
// windows.
type FrameStats struct {
	Frames uint64

	windowStart  time.Time
	windowFrames int
	windowTime   time.Duration
}

// Add records one frame that took dt and ended at now. When a full second
// has passed since the window opened it returns the window's average
// frame time and opens a new window.
func (s *FrameStats) Add(now time.Time, dt time.Duration) (avg time.Duration, ok bool) {
	s.Frames++
	if s.windowStart.IsZero() {
		s.windowStart = now
	}
	s.windowFrames++
	s.windowTime += dt

	if now.Sub(s.windowStart) < time.Second {
		return 0, false
	}
	avg = s.windowTime / time.Duration(s.windowFrames)
	s.windowStart = now
	s.windowFrames = 0
	s.windowTime = 0
	return avg, true
}
