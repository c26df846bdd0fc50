package biovis

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action     string `json:"action"`
	Label      string `json:"label,omitempty"`
	DurationMs int    `json:"durationMs,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Frames     int    `json:"frames,omitempty"`
	Target     uint64 `json:"target,omitempty"`
	Text       string `json:"text,omitempty"`
	Side       string `json:"side,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences scene actions and screenshots across frames for
// automated visual runs. Attach to a Scene via SetScript. One step runs per
// frame; "wait" holds the cursor for a number of frames.
//
// Actions: screenshot (label), simulate (durationMs), reset, toggleLabels,
// resize (width, height), annotate (target, text, side), wait (frames).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  int
}

var scriptActions = map[string]bool{
	"screenshot":   true,
	"simulate":     true,
	"reset":        true,
	"toggleLabels": true,
	"resize":       true,
	"annotate":     true,
	"wait":         true,
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a script to the scene. Its steps run from Update
// before frame callbacks are pumped.
func (s *Scene) SetScript(sc *Script) {
	s.script = sc
}

// Done reports whether all steps have been executed.
func (r *Script) Done() bool {
	return r.done
}

// Failures returns the number of steps whose action returned an error.
func (r *Script) Failures() int {
	return r.failures
}

// step advances the script by one frame. Called from Scene.Update.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "simulate":
		err = s.SimulateProcess(ProcessOptions{Duration: time.Duration(st.DurationMs) * time.Millisecond})
	case "reset":
		s.ClearProcessElements()
	case "toggleLabels":
		s.ToggleLabels()
	case "resize":
		err = s.Resize(st.Width, st.Height)
	case "annotate":
		var side Side
		if side, err = ParseSide(st.Side); err == nil {
			_, err = s.AddAnnotation(ComponentID(st.Target), st.Text, side)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	if err != nil {
		r.failures++
		s.log.Warn("script step failed",
			zap.Int("step", r.cursor-1),
			zap.String("action", st.Action),
			zap.Error(err))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
