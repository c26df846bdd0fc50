package biovis

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock(testEpoch)
	if !c.Now().Equal(testEpoch) {
		t.Fatalf("Now = %v, want %v", c.Now(), testEpoch)
	}
	c.Advance(1500 * time.Millisecond)
	if got := c.Now().Sub(testEpoch); got != 1500*time.Millisecond {
		t.Errorf("elapsed = %v, want 1.5s", got)
	}
	c.Set(testEpoch)
	if !c.Now().Equal(testEpoch) {
		t.Error("Set should move the clock")
	}
}

func TestFrameLoopDefersNestedRequests(t *testing.T) {
	c := NewManualClock(testEpoch)
	l := NewFrameLoop(c)

	var calls []string
	l.RequestFrame(func(now time.Time) {
		calls = append(calls, "a")
		l.RequestFrame(func(time.Time) { calls = append(calls, "nested") })
	})
	l.RequestFrame(func(time.Time) { calls = append(calls, "b") })

	if n := l.Pump(); n != 2 {
		t.Errorf("first Pump ran %d callbacks, want 2", n)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
	if l.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", l.Pending())
	}
	l.Pump()
	if len(calls) != 3 || calls[2] != "nested" {
		t.Errorf("calls = %v, want nested last", calls)
	}
	if l.Pump() != 0 || l.Frames() != 2 {
		t.Errorf("empty pump should not count: frames = %d", l.Frames())
	}
}

func TestFrameLoopStampsClockTime(t *testing.T) {
	c := NewManualClock(testEpoch)
	l := NewFrameLoop(c)
	c.Advance(time.Second)
	var got time.Time
	l.RequestFrame(func(now time.Time) { got = now })
	l.Pump()
	if !got.Equal(testEpoch.Add(time.Second)) {
		t.Errorf("frame time = %v", got)
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	var c SystemClock
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Error("SystemClock went backwards")
	}
}
