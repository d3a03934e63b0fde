package core

import "time"

// Millis is a point on the device's monotonic millisecond counter.
// It is 32 bits wide and wraps after ~49.7 days; compare two values only
// through Since, never with < or >.
type Millis uint32

// Since returns the time elapsed from earlier to m.
// Unsigned subtraction keeps the result correct across a counter wrap.
func (m Millis) Since(earlier Millis) Millis {
	return m - earlier
}

// Reached reports whether m is at or past deadline. The two must be less
// than half the counter range apart.
func (m Millis) Reached(deadline Millis) bool {
	return m.Since(deadline) < 1<<31
}

// Duration converts the counter value to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// MillisOf converts a duration to counter units, truncating sub-millisecond parts.
func MillisOf(d time.Duration) Millis {
	return Millis(uint32(d / time.Millisecond)) //nolint:gosec // wraparound is the point
}

// Clock is the single time source of the control loop.
type Clock interface {
	Now() Millis
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the elapsed milliseconds, truncated to 32 bits.
func (c *SystemClock) Now() Millis {
	return Millis(uint32(time.Since(c.start).Milliseconds())) //nolint:gosec // wraps by design
}

// ManualClock is a clock advanced explicitly; tests and replays step it.
type ManualClock struct {
	now Millis
}

// NewManualClock creates a manual clock at the given counter value.
func NewManualClock(start Millis) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current counter value.
func (c *ManualClock) Now() Millis {
	return c.now
}

// Advance moves the clock forward by d milliseconds.
func (c *ManualClock) Advance(d Millis) {
	c.now += d
}

// Set jumps the clock to an absolute counter value.
func (c *ManualClock) Set(m Millis) {
	c.now = m
}
