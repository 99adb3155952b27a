package domo

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float32 `json:"x,omitempty"`
	Y        float32 `json:"y,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// runnerHost is what a TestRunner drives: the Run loop in production, a
// fake in tests.
type runnerHost interface {
	Screenshot(label string)
	Camera() *OrthoCamera
}

// TestRunner sequences camera moves and screenshots across frames for
// automated visual testing. Supported actions:
//
//	{"action": "wait", "frames": 10}
//	{"action": "screenshot", "label": "start"}
//	{"action": "scroll", "x": 640, "y": 0, "duration": 0.5}
//
// A scroll step holds the script until the camera arrives.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, errors.Wrap(err, "parse test script")
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "screenshot", "scroll":
		default:
			return nil, errors.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame.
func (r *TestRunner) step(h runnerHost) {
	if r.done {
		return
	}
	// Let a running scroll finish before advancing.
	if h.Camera().Scrolling() {
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

	switch st.Action {
	case "screenshot":
		h.Screenshot(st.Label)
	case "scroll":
		h.Camera().ScrollTo(st.X, st.Y, st.Duration, nil)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !h.Camera().Scrolling() {
		r.done = true
	}
}
