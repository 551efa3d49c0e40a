package s2d

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `yaml:"action"`
	X      float32 `yaml:"x,omitempty"`
	Y      float32 `yaml:"y,omitempty"`
	FromX  float32 `yaml:"fromX,omitempty"`
	FromY  float32 `yaml:"fromY,omitempty"`
	ToX    float32 `yaml:"toX,omitempty"`
	ToY    float32 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// inputScriptDoc is the top-level YAML structure for an input script.
type inputScriptDoc struct {
	Steps []scriptStep `yaml:"steps"`
}

// InputScript sequences injected pointer events across frames for automated
// UI runs. It is a Behavior: attach it to any entity and it feeds its
// InjectSource one step at a time.
//
//	steps:
//	  - action: click
//	    x: 120
//	    y: 40
//	  - action: wait
//	    frames: 10
//	  - action: drag
//	    fromX: 0
//	    fromY: 0
//	    toX: 100
//	    toY: 0
//	    frames: 5
//
// Actions are press, move, release, click, drag and wait.
type InputScript struct {
	BaseComponent
	source    *InjectSource
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

var validActions = map[string]bool{
	"press": true, "move": true, "release": true,
	"click": true, "drag": true, "wait": true,
}

// LoadInputScript parses a YAML input script that will drive src.
func LoadInputScript(data []byte, src *InjectSource) (*InputScript, error) {
	var doc inputScriptDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "s2d: parse input script")
	}
	if len(doc.Steps) == 0 {
		return nil, errors.New("s2d: parse input script: no steps")
	}
	for i, st := range doc.Steps {
		if !validActions[st.Action] {
			return nil, errors.Errorf("s2d: parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputScript{source: src, steps: doc.Steps}, nil
}

// Done reports whether every step has been executed and its events consumed.
func (r *InputScript) Done() bool { return r.done }

// Update advances the script by one frame.
func (r *InputScript) Update(*Frame) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if r.source.Pending() > 0 {
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
	case "press":
		r.source.Press(st.X, st.Y)
	case "move":
		r.source.Move(st.X, st.Y)
	case "release":
		r.source.Release(st.X, st.Y)
	case "click":
		r.source.Click(st.X, st.Y)
	case "drag":
		r.source.Drag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}
