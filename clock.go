package biovis

import (
	"time"
)

// Clock is the engine's time source. Animation progress and process cues
// are evaluated against it, so tests can drive a whole scenario without
// waiting on the wall clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real monotonic clock.
type SystemClock struct{}

// Now returns the current time with monotonic clock reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a controllable Clock for tests and deterministic replays.
// It is not safe for concurrent use.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current mocked time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// FrameRequester is the host's frame clock. RequestFrame schedules fn to run
// once at the next paint opportunity with that frame's timestamp.
type FrameRequester interface {
	RequestFrame(fn func(now time.Time))
}

// FrameLoop is a FrameRequester driven by explicit Pump calls, one per
// rendering frame. Callbacks requested while a pump is running are deferred
// to the next pump.
type FrameLoop struct {
	clock   Clock
	pending []func(time.Time)
	spare   []func(time.Time)
	frames  uint64
}

// NewFrameLoop creates a frame loop stamping frames with clock.
func NewFrameLoop(clock Clock) *FrameLoop {
	return &FrameLoop{clock: clock}
}

// RequestFrame queues fn for the next Pump.
func (l *FrameLoop) RequestFrame(fn func(now time.Time)) {
	l.pending = append(l.pending, fn)
}

// Pump runs every callback queued before this call. Returns the number of
// callbacks run.
func (l *FrameLoop) Pump() int {
	if len(l.pending) == 0 {
		return 0
	}
	l.frames++
	batch := l.pending
	l.pending = l.spare[:0]
	now := l.clock.Now()
	for i, fn := range batch {
		fn(now)
		batch[i] = nil
	}
	l.spare = batch[:0]
	return len(batch)
}

// Pending returns the number of callbacks waiting for the next Pump.
func (l *FrameLoop) Pending() int {
	return len(l.pending)
}

// Frames returns how many non-empty pumps have run.
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}
