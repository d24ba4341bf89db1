package bauble

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// Actions understood by the test runner.
var testActions = map[string]bool{
	"screenshot": true, // label
	"drag":       true, // fromX, fromY, toX, toY, frames
	"pinch":      true, // scale, frames
	"wheel":      true, // delta
	"reset":      true,
	"play":       true,
	"pause":      true,
	"stop":       true,
	"loop":       true, // mode: none, wrap, reverse
	"view":       true, // mode: normal, steps, distance
	"edit":       true, // marks the script dirty
	"wait":       true, // frames
}

// TestRunner sequences injected input, playback controls and screenshots
// across frames for automated visual testing. Attach to a Session via
// SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Session via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !testActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		switch st.Action {
		case "loop":
			if _, ok := ParseLoopMode(st.Mode); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown loop mode %q", i, st.Mode)
			}
		case "view":
			if _, ok := ParseViewType(st.Mode); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown view %q", i, st.Mode)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the session. The runner's step
// method is called from Session.Update before input is processed.
func (s *Session) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// TestRunner returns the attached runner, or nil.
func (s *Session) TestRunner() *TestRunner {
	return s.testRunner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one update. Called from Session.Update.
func (r *TestRunner) step(s *Session) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
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

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "pinch":
		s.InjectPinch(st.Scale, st.Frames)
	case "wheel":
		s.InjectWheel(st.Delta)
	case "reset":
		s.Camera.Reset()
	case "play":
		s.Timer.Play()
	case "pause":
		s.Timer.Pause()
	case "stop":
		s.Timer.Stop()
	case "loop":
		mode, _ := ParseLoopMode(st.Mode)
		s.Timer.SetLoopMode(mode)
	case "view":
		view, _ := ParseViewType(st.Mode)
		s.Camera.ViewType.Set(view)
	case "edit":
		s.MarkScriptDirty()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
