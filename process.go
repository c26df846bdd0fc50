package biovis

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DefaultProcessDuration is used when ProcessOptions.Duration is zero.
const DefaultProcessDuration = 5 * time.Second

// Role names the part a drawable plays in a process scenario.
type Role string

const (
	RoleMRNA     Role = "mrna"
	RoleRibosome Role = "ribosome"
	RoleTRNA     Role = "trna"
	RoleProtein  Role = "protein"
)

// Cast maps each role to the drawables playing it, in staging order.
type Cast map[Role][]ComponentID

// Clone returns a deep copy.
func (c Cast) Clone() Cast {
	out := make(Cast, len(c))
	for r, ids := range c {
		out[r] = slices.Clone(ids)
	}
	return out
}

// All returns every id in the cast, roles in name order.
func (c Cast) All() []ComponentID {
	roles := slices.Sorted(maps.Keys(c))
	var ids []ComponentID
	for _, r := range roles {
		ids = append(ids, c[r]...)
	}
	return ids
}

// AllIndices makes a Cue target every drawable of its role.
const AllIndices = -1

// Cue is one opacity change of a scenario: starting Offset after the
// scenario begins, fade the Index-th drawable of Role to Opacity over Over.
type Cue struct {
	Offset  time.Duration
	Role    Role
	Index   int
	Opacity float64
	Over    time.Duration
}

// Scenario is a choreographed biological process.
type Scenario interface {
	Name() string
	// Stage creates the scenario's drawables, normally fully transparent.
	Stage(s *Scene) (Cast, error)
	// Cues returns the schedule for the given total duration.
	Cues(cast Cast, duration time.Duration) []Cue
}

// ProcessOptions configures a scenario run.
type ProcessOptions struct {
	Duration   time.Duration
	OnComplete func()
}

// ProteinSynthesis stages mRNA, a ribosome, three tRNAs and a protein, and
// fades them in over six equal steps.
type ProteinSynthesis struct {
	// TRNACount overrides the number of tRNAs; zero means 3.
	TRNACount int
}

func (ProteinSynthesis) Name() string { return "protein-synthesis" }

func (p ProteinSynthesis) trnaCount() int {
	if p.TRNACount > 0 {
		return p.TRNACount
	}
	return 3
}

// Stage places the molecules relative to the surface: the mRNA arcs from
// 0.3 to 0.7 of the width, the ribosome sits on its start, the tRNAs stand
// at 0.4, 0.5 and 0.6 of the width below it and the protein hangs under the
// middle of the strand.
func (p ProteinSynthesis) Stage(s *Scene) (Cast, error) {
	sw, sh := s.Size()
	w, h := float64(sw), float64(sh)
	cast := Cast{}

	add := func(role Role, kind Kind, g Geometry) error {
		id, err := s.Create(kind, g)
		if err != nil {
			return err
		}
		cast[role] = append(cast[role], id)
		return nil
	}

	if err := add(RoleMRNA, KindMRNA, Geometry{X: w * 0.3, Y: h * 0.4, Width: w * 0.4, Height: h * 0.1}); err != nil {
		return cast, err
	}
	if err := add(RoleRibosome, KindRibosome, Geometry{X: w * 0.3, Y: h * 0.4, Size: 25}); err != nil {
		return cast, err
	}
	n := p.trnaCount()
	for i := range n {
		frac := 0.5
		if n > 1 {
			frac = 0.4 + 0.2*float64(i)/float64(n-1)
		}
		g := Geometry{X: w * frac, Y: h * 0.6, Width: w * 0.03, Height: h * 0.05}
		if err := add(RoleTRNA, KindTRNA, g); err != nil {
			return cast, err
		}
	}
	if err := add(RoleProtein, KindProtein, Geometry{X: w * 0.4, Y: h * 0.4, Width: w * 0.2, Height: h * 0.1}); err != nil {
		return cast, err
	}
	return cast, nil
}

// Cues splits duration into six steps:
//
//	0        mRNA in over one step
//	1        ribosome in over half a step
//	2 + i/2  tRNA i in over half a step
//	4        protein in over one step
//	5        all tRNAs out over half a step
func (p ProteinSynthesis) Cues(cast Cast, duration time.Duration) []Cue {
	step := duration / 6
	half := step / 2
	cues := []Cue{
		{Offset: 0, Role: RoleMRNA, Index: 0, Opacity: 1, Over: step},
		{Offset: step, Role: RoleRibosome, Index: 0, Opacity: 1, Over: half},
	}
	for i := range cast[RoleTRNA] {
		cues = append(cues, Cue{
			Offset: 2*step + time.Duration(i)*half, Role: RoleTRNA, Index: i, Opacity: 1, Over: half,
		})
	}
	cues = append(cues,
		Cue{Offset: 4 * step, Role: RoleProtein, Index: 0, Opacity: 1, Over: step},
		Cue{Offset: 5 * step, Role: RoleTRNA, Index: AllIndices, Opacity: 0, Over: half},
	)
	return cues
}

// processState is the scene's single running scenario.
type processState struct {
	name   string
	cast   Cast
	cues   []*Task
	tweens []*Task
	active bool
}

func (p *processState) track(t *Task) {
	if t != nil {
		p.tweens = append(p.tweens, t)
	}
}

// SimulateProcess runs the protein synthesis scenario.
func (s *Scene) SimulateProcess(opts ProcessOptions) error {
	return s.Simulate(ProteinSynthesis{}, opts)
}

// Simulate clears any running scenario, stages sc and schedules its cues on
// the scene clock. OnComplete fires once, exactly Duration after the call,
// unless the process is cleared first.
func (s *Scene) Simulate(sc Scenario, opts ProcessOptions) error {
	if s.destroyed {
		return ErrDestroyed
	}
	d := opts.Duration
	if d == 0 {
		d = DefaultProcessDuration
	}
	if d < 0 {
		return fmt.Errorf("simulate %s over %v: %w", sc.Name(), d, ErrInvalidDuration)
	}

	s.ClearProcessElements()

	cast, err := sc.Stage(s)
	p := &processState{name: sc.Name(), cast: cast, active: true}
	s.process = p
	if err != nil {
		s.ClearProcessElements()
		return fmt.Errorf("stage %s: %w", sc.Name(), err)
	}

	for _, c := range sc.Cues(cast, d) {
		p.cues = append(p.cues, s.scheduler.After(c.Offset, func() {
			s.playCue(p, c)
		}))
	}
	onComplete := opts.OnComplete
	p.cues = append(p.cues, s.scheduler.After(d, func() {
		p.active = false
		s.log.Info("process complete", zap.String("process", p.name))
		if onComplete != nil {
			onComplete()
		}
	}))

	s.log.Info("process started",
		zap.String("process", p.name),
		zap.Duration("duration", d),
		zap.Int("drawables", len(cast.All())),
	)
	return nil
}

func (s *Scene) playCue(p *processState, c Cue) {
	ids := p.cast[c.Role]
	if c.Index != AllIndices {
		if c.Index < 0 || c.Index >= len(ids) {
			s.log.Warn("cue index out of range",
				zap.String("role", string(c.Role)), zap.Int("index", c.Index))
			return
		}
		ids = ids[c.Index : c.Index+1]
	}
	for _, id := range ids {
		t, err := s.scheduler.Animate(id, map[string]float64{PropOpacity: c.Opacity}, c.Over)
		if err != nil {
			s.log.Debug("cue skipped", zap.Stringer("id", id), zap.Error(err))
			continue
		}
		p.track(t)
	}
}

// ClearProcessElements cancels the running scenario's tasks and pending
// cues, removes its drawables and forgets the cast. Safe to call when no
// scenario has run.
func (s *Scene) ClearProcessElements() {
	p := s.process
	if p == nil {
		return
	}
	s.process = nil
	for _, t := range p.cues {
		t.Cancel()
	}
	for _, t := range p.tweens {
		t.Cancel()
	}
	removed := 0
	for _, id := range p.cast.All() {
		if s.Remove(id) {
			removed++
		}
	}
	s.log.Debug("process cleared", zap.String("process", p.name), zap.Int("removed", removed))
}

// ProcessElements returns a copy of the running scenario's cast, or nil.
func (s *Scene) ProcessElements() Cast {
	if s.process == nil {
		return nil
	}
	return s.process.cast.Clone()
}

// ProcessActive reports whether a scenario is staged and its completion
// has not fired yet.
func (s *Scene) ProcessActive() bool {
	return s.process != nil && s.process.active
}
