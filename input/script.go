package input

import (
	"encoding/json"
	"fmt"
)

// syntheticEvent is one queued change to the scripted device state.
type syntheticEvent struct {
	code    Code
	pressed bool
	move    bool
	x, y    float64
}

// ScriptedSource is a Source driven by code or by a Script instead of real
// devices. Queued events are applied one per Update, so a press and a release
// queued together span two frames.
type ScriptedSource struct {
	pressed map[Code]bool
	x, y    float64
	queue   []syntheticEvent
	script  *Script
}

// NewScriptedSource returns a source with nothing pressed.
func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{pressed: make(map[Code]bool)}
}

// Press queues a press of c.
func (s *ScriptedSource) Press(c Code) {
	s.queue = append(s.queue, syntheticEvent{code: c, pressed: true})
}

// Release queues a release of c.
func (s *ScriptedSource) Release(c Code) {
	s.queue = append(s.queue, syntheticEvent{code: c})
}

// Tap queues a press followed by a release. Consumes two frames.
func (s *ScriptedSource) Tap(c Code) {
	s.Press(c)
	s.Release(c)
}

// MoveCursor queues a cursor move to (x, y).
func (s *ScriptedSource) MoveCursor(x, y float64) {
	s.queue = append(s.queue, syntheticEvent{move: true, x: x, y: y})
}

// Hold sets c pressed immediately, bypassing the queue.
func (s *ScriptedSource) Hold(c Code, pressed bool) {
	if pressed {
		s.pressed[c] = true
		return
	}
	delete(s.pressed, c)
}

// Pending returns the number of queued events.
func (s *ScriptedSource) Pending() int { return len(s.queue) }

// SetScript attaches a script. Its steps run from Update, one frame at a time.
func (s *ScriptedSource) SetScript(script *Script) { s.script = script }

// Update advances the attached script and applies one queued event.
func (s *ScriptedSource) Update() {
	if s.script != nil {
		s.script.step(s)
	}
	if len(s.queue) == 0 {
		return
	}
	evt := s.queue[0]
	copy(s.queue, s.queue[1:])
	s.queue = s.queue[:len(s.queue)-1]

	switch {
	case evt.move:
		s.x, s.y = evt.x, evt.y
	case evt.pressed:
		s.pressed[evt.code] = true
	default:
		delete(s.pressed, evt.code)
	}
}

func (s *ScriptedSource) Pressed(c Code) bool { return s.pressed[c] }

func (s *ScriptedSource) Cursor() (float64, float64) { return s.x, s.y }

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Key    string  `json:"key,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`

	code Code
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences scripted input across frames. Actions: "press",
// "release" and "tap" take a key name, "move" takes x and y, "wait" takes
// a frame count.
//
//	{"steps": [
//		{"action": "press", "key": "W"},
//		{"action": "wait", "frames": 30},
//		{"action": "release", "key": "W"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script. Key names are resolved up front.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i := range f.Steps {
		st := &f.Steps[i]
		switch st.Action {
		case "press", "release", "tap":
			c, ok := ParseCode(st.Key)
			if !ok || c == None {
				return nil, fmt.Errorf("parse input script: step %d: unknown key %q", i, st.Key)
			}
			st.code = c
		case "move", "wait":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run and its events were applied.
func (r *Script) Done() bool { return r.done }

func (r *Script) step(s *ScriptedSource) {
	if r.done {
		return
	}
	// Let queued events drain before advancing.
	if len(s.queue) > 0 {
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
		s.Press(st.code)
	case "release":
		s.Release(st.code)
	case "tap":
		s.Tap(st.code)
	case "move":
		s.MoveCursor(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}
}
