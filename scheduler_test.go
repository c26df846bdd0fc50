package biovis

import (
	"errors"
	"testing"
	"time"
)

func animateOpacity(t *testing.T, s *Scene, id ComponentID, to float64, d time.Duration) *Task {
	t.Helper()
	task, err := s.Animate(id, map[string]float64{PropOpacity: to}, d)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	return task
}

func TestAnimateLinear(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindMRNA, Geometry{Width: 10, Height: 10})
	task := animateOpacity(t, s, id, 1, time.Second)

	stepTo(t, s, clock, 500*time.Millisecond)
	assertNear(t, "opacity at D/2", s.Get(id).Alpha, 0.5)
	if task.Done() {
		t.Error("task should still be running at D/2")
	}
	assertNear(t, "progress", task.Progress(), 0.5)

	stepTo(t, s, clock, time.Second)
	if s.Get(id).Alpha != 1 {
		t.Errorf("opacity at D = %v, want exactly 1", s.Get(id).Alpha)
	}
	if task.State() != TaskCompleted {
		t.Errorf("state = %v, want completed", task.State())
	}
	if s.Scheduler().Active() != 0 {
		t.Error("no tweens should remain")
	}
}

func TestAnimateLandsExactlyOnTargetWhenLate(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindMRNA, Geometry{Width: 10, Height: 10})
	animateOpacity(t, s, id, 0.3, 100*time.Millisecond)

	clock.Advance(10 * time.Second)
	_ = s.Update()
	if s.Get(id).Alpha != 0.3 {
		t.Errorf("opacity = %v, want exactly 0.3", s.Get(id).Alpha)
	}
}

func TestAnimateFromCurrentValue(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	s.Get(id).SetPosition(100, 0)
	if _, err := s.Animate(id, map[string]float64{PropX: 200, "glow": 1}, time.Second); err != nil {
		t.Fatal(err)
	}
	stepTo(t, s, clock, 250*time.Millisecond)
	assertNear(t, "x", s.Get(id).X, 125)
	glow, ok := s.Get(id).Property("glow")
	if !ok {
		t.Fatal("unset property should be created")
	}
	assertNear(t, "glow", glow, 0.25)
}

func TestAnimateErrors(t *testing.T) {
	s, _, logs := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})

	if _, err := s.Animate(id, map[string]float64{PropOpacity: 1}, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero duration err = %v", err)
	}
	if _, err := s.Animate(id, nil, time.Second); !errors.Is(err, ErrNoProperties) {
		t.Errorf("no properties err = %v", err)
	}
	if _, err := s.Animate(99, map[string]float64{PropOpacity: 1}, time.Second); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("missing target err = %v", err)
	}
	if logs.FilterMessage("component not found").Len() != 1 {
		t.Error("missing target should be logged once")
	}
	if s.Scheduler().Active() != 0 || s.Scheduler().Running() {
		t.Error("failed animations should schedule nothing")
	}
}

func TestAnimateDroppedWhenTargetRemoved(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	n := s.Get(id)
	task := animateOpacity(t, s, id, 0, time.Second)

	stepTo(t, s, clock, 200*time.Millisecond)
	s.Remove(id)
	stepTo(t, s, clock, 400*time.Millisecond)

	if task.State() != TaskDropped {
		t.Errorf("state = %v, want dropped", task.State())
	}
	if s.Scheduler().Running() {
		t.Error("loop should stop once the only task is dropped")
	}
	if n.Alpha == 0 {
		t.Error("dropped task should not have written the final value")
	}
}

func TestTaskCancel(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	task := animateOpacity(t, s, id, 0, time.Second)

	stepTo(t, s, clock, 300*time.Millisecond)
	at := s.Get(id).Alpha
	if !task.Cancel() {
		t.Fatal("Cancel should succeed on a running task")
	}
	if task.Cancel() {
		t.Error("second Cancel should report false")
	}
	stepTo(t, s, clock, time.Second)
	if s.Get(id).Alpha != at {
		t.Errorf("opacity changed after cancel: %v -> %v", at, s.Get(id).Alpha)
	}
	if task.State() != TaskCancelled {
		t.Errorf("state = %v, want cancelled", task.State())
	}
}

func TestConcurrentTweensLastCreatedWins(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	s.Get(id).SetAlpha(0)
	animateOpacity(t, s, id, 1, time.Second)
	animateOpacity(t, s, id, 0.5, time.Second)

	stepTo(t, s, clock, time.Second)
	if s.Get(id).Alpha != 0.5 {
		t.Errorf("opacity = %v, want 0.5 from the later task", s.Get(id).Alpha)
	}
}

func TestSchedulerLoopStopsWhenIdle(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	if s.Scheduler().Running() {
		t.Fatal("scheduler should idle with no work")
	}
	animateOpacity(t, s, id, 0, 100*time.Millisecond)
	if !s.Scheduler().Running() {
		t.Fatal("Animate should start the loop")
	}
	stepTo(t, s, clock, 200*time.Millisecond)
	ticks := s.Scheduler().Ticks()
	if s.Scheduler().Running() || s.frames.Pending() != 0 {
		t.Error("loop should lapse after the last task")
	}
	stepTo(t, s, clock, time.Second)
	if s.Scheduler().Ticks() != ticks {
		t.Error("idle scheduler should not tick")
	}
}

func TestAfterFiresInDueOrder(t *testing.T) {
	s, clock, _ := newTestScene(t)
	sch := s.Scheduler()
	var fired []string
	sch.After(300*time.Millisecond, func() { fired = append(fired, "late") })
	sch.After(100*time.Millisecond, func() { fired = append(fired, "early") })
	cancelled := sch.After(200*time.Millisecond, func() { fired = append(fired, "cancelled") })
	cancelled.Cancel()

	if sch.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", sch.Pending())
	}
	clock.Advance(time.Second)
	_ = s.Update()
	if len(fired) != 2 || fired[0] != "early" || fired[1] != "late" {
		t.Errorf("fired = %v, want [early late]", fired)
	}
}

func TestAfterScheduledByCueWaitsForNextTick(t *testing.T) {
	s, clock, _ := newTestScene(t)
	sch := s.Scheduler()
	inner := false
	sch.After(0, func() {
		sch.After(0, func() { inner = true })
	})
	_ = s.Update()
	if inner {
		t.Error("nested cue should not fire in the same tick")
	}
	clock.Advance(16 * time.Millisecond)
	_ = s.Update()
	if !inner {
		t.Error("nested cue should fire on the next tick")
	}
}

func TestCueStartedTweenSampledSameTick(t *testing.T) {
	s, clock, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	var task *Task
	s.Scheduler().After(100*time.Millisecond, func() {
		task, _ = s.Animate(id, map[string]float64{PropOpacity: 0}, time.Second)
	})
	stepTo(t, s, clock, 100*time.Millisecond)
	if task == nil {
		t.Fatal("cue should have fired")
	}
	if s.Scheduler().Active() != 1 || task.Progress() != 0 {
		t.Errorf("tween should be live at progress 0, got %v", task.Progress())
	}
}

func TestCancelAll(t *testing.T) {
	s, _, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	task := animateOpacity(t, s, id, 0, time.Second)
	cue := s.Scheduler().After(time.Second, func() { t.Error("cancelled cue fired") })
	s.Scheduler().CancelAll()
	if task.State() != TaskCancelled || cue.State() != TaskCancelled {
		t.Errorf("states = %v, %v", task.State(), cue.State())
	}
	if s.Scheduler().Active() != 0 || s.Scheduler().Pending() != 0 {
		t.Error("nothing should remain after CancelAll")
	}
}

func TestTaskStateString(t *testing.T) {
	for state, want := range map[TaskState]string{
		TaskRunning:   "running",
		TaskCompleted: "completed",
		TaskCancelled: "cancelled",
		TaskDropped:   "dropped",
	} {
		if state.String() != want {
			t.Errorf("%d.String() = %q, want %q", state, state.String(), want)
		}
	}
}
