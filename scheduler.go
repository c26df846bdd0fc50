package biovis

import (
	"fmt"
	"slices"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// TaskState is the lifecycle state of a scheduled task. Tasks are created
// Running; the other states are terminal.
type TaskState uint8

const (
	TaskRunning   TaskState = iota
	TaskCompleted           // progress reached 1 or the cue fired
	TaskCancelled           // Cancel was called first
	TaskDropped             // the target drawable disappeared mid-flight
)

func (s TaskState) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	case TaskDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// propertyTween interpolates one numeric property.
type propertyTween struct {
	name  string
	start float64
	end   float64
	tween *gween.Tween
}

// Task is a handle to either a property tween or a deferred action (cue).
type Task struct {
	id       uint64
	target   ComponentID // zero for cues
	props    []propertyTween
	start    time.Time
	duration time.Duration
	progress float64

	due    time.Time // cues only
	action func()

	state TaskState
}

// ID returns the task's scheduler-unique id.
func (t *Task) ID() uint64 { return t.id }

// Target returns the animated component, or zero for a cue.
func (t *Task) Target() ComponentID { return t.target }

// State returns the task's lifecycle state.
func (t *Task) State() TaskState { return t.state }

// Done reports whether the task has reached a terminal state.
func (t *Task) Done() bool { return t.state != TaskRunning }

// Progress returns the last computed progress in [0, 1]. Always 0 for cues
// until they fire.
func (t *Task) Progress() float64 { return t.progress }

// Duration returns the tween duration; zero for cues.
func (t *Task) Duration() time.Duration { return t.duration }

// Cancel stops the task before completion. No further writes happen; values
// already written stay. Reports false if the task had already finished.
func (t *Task) Cancel() bool {
	if t.state != TaskRunning {
		return false
	}
	t.state = TaskCancelled
	t.action = nil
	return true
}

// Scheduler advances property tweens and deferred actions once per frame.
// It owns no goroutines: the loop is a chain of FrameRequester callbacks
// that stops by itself when nothing is left to do.
//
// Tasks that write the same property of the same drawable all run; within a
// tick they are applied in creation order, so the most recently created
// task's value is the one left on the node.
type Scheduler struct {
	clock    Clock
	frames   FrameRequester
	registry *Registry
	log      *zap.Logger

	nextID  uint64
	tasks   []*Task
	cues    []*Task
	running bool
	ticks   uint64
}

// NewScheduler creates a scheduler resolving targets through registry.
func NewScheduler(clock Clock, frames FrameRequester, registry *Registry, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		clock:    clock,
		frames:   frames,
		registry: registry,
		log:      log,
	}
}

// Animate tweens each property in targets from its current value (0 if
// unset) to the target value over d, linearly. The returned handle can
// cancel the tween. An unknown id is logged and reported as
// ErrComponentNotFound without scheduling anything.
func (s *Scheduler) Animate(id ComponentID, targets map[string]float64, d time.Duration) (*Task, error) {
	if d <= 0 {
		return nil, fmt.Errorf("animate %v over %v: %w", id, d, ErrInvalidDuration)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("animate %v: %w", id, ErrNoProperties)
	}
	n, ok := s.registry.Lookup(id)
	if !ok {
		s.log.Warn("component not found", zap.String("op", "animate"), zap.Stringer("id", id))
		return nil, fmt.Errorf("animate %v: %w", id, ErrComponentNotFound)
	}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	slices.Sort(names)

	ms := float32(d.Seconds() * 1000)
	props := make([]propertyTween, len(names))
	for i, name := range names {
		start, _ := n.Property(name)
		end := targets[name]
		props[i] = propertyTween{
			name:  name,
			start: start,
			end:   end,
			tween: gween.New(float32(start), float32(end), ms, ease.Linear),
		}
	}

	s.nextID++
	t := &Task{
		id:       s.nextID,
		target:   id,
		props:    props,
		start:    s.clock.Now(),
		duration: d,
	}
	s.tasks = append(s.tasks, t)
	s.ensureRunning()
	return t, nil
}

// After runs fn once offset has elapsed on the scheduler's clock. Cues fire
// at the start of the first tick at or past their due time, before tweens
// advance, so an animation started by a cue is sampled in that same tick.
func (s *Scheduler) After(offset time.Duration, fn func()) *Task {
	s.nextID++
	t := &Task{
		id:     s.nextID,
		due:    s.clock.Now().Add(offset),
		action: fn,
	}
	s.cues = append(s.cues, t)
	s.ensureRunning()
	return t
}

// CancelAll cancels every pending task and cue.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.Cancel()
	}
	for _, t := range s.cues {
		t.Cancel()
	}
	s.tasks = s.tasks[:0]
	s.cues = s.cues[:0]
}

// Active returns the number of live property tweens.
func (s *Scheduler) Active() int {
	n := 0
	for _, t := range s.tasks {
		if t.state == TaskRunning {
			n++
		}
	}
	return n
}

// Pending returns the number of cues that have not fired.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.cues {
		if t.state == TaskRunning {
			n++
		}
	}
	return n
}

// Running reports whether a frame is currently requested.
func (s *Scheduler) Running() bool {
	return s.running
}

// Ticks returns the number of frames the scheduler has processed.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

func (s *Scheduler) ensureRunning() {
	if s.running {
		return
	}
	s.running = true
	s.frames.RequestFrame(s.tick)
}

// tick is one frame of work: fire due cues, advance tweens, then either
// request the next frame or let the loop lapse.
func (s *Scheduler) tick(now time.Time) {
	s.ticks++
	s.fireCues(now)

	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.state != TaskRunning {
			continue
		}
		if s.advance(t, now) {
			live = append(live, t)
		}
	}
	clear(s.tasks[len(live):])
	s.tasks = live

	if len(s.tasks) == 0 && len(s.cues) == 0 {
		s.running = false
		return
	}
	s.frames.RequestFrame(s.tick)
}

// fireCues runs every cue due at now in due-time order. Cues scheduled by a
// firing cue wait for a later tick even if already due.
func (s *Scheduler) fireCues(now time.Time) {
	if len(s.cues) == 0 {
		return
	}
	slices.SortStableFunc(s.cues, func(a, b *Task) int {
		return a.due.Compare(b.due)
	})
	var due []*Task
	rest := s.cues[:0]
	for _, t := range s.cues {
		switch {
		case t.state != TaskRunning:
		case !t.due.After(now):
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	clear(s.cues[len(rest):])
	s.cues = rest

	for _, t := range due {
		if t.state != TaskRunning {
			continue // cancelled by an earlier cue this tick
		}
		t.state = TaskCompleted
		fn := t.action
		t.action = nil
		if fn != nil {
			fn()
		}
	}
}

// advance writes one frame of a tween. Returns false once the task is done.
func (s *Scheduler) advance(t *Task, now time.Time) bool {
	n, ok := s.registry.Lookup(t.target)
	if !ok {
		t.state = TaskDropped
		s.log.Debug("tween dropped", zap.Uint64("task", t.id), zap.Stringer("target", t.target))
		return false
	}

	elapsed := now.Sub(t.start)
	progress := float64(elapsed) / float64(t.duration)
	if progress < 0 {
		progress = 0
	}
	if progress >= 1 {
		progress = 1
	}
	t.progress = progress

	ms := float32(elapsed.Seconds() * 1000)
	for i := range t.props {
		p := &t.props[i]
		v, _ := p.tween.Set(ms)
		val := float64(v)
		switch progress {
		case 0:
			val = p.start
		case 1:
			val = p.end
		}
		n.SetProperty(p.name, val)
	}

	if progress == 1 {
		t.state = TaskCompleted
		return false
	}
	return true
}
