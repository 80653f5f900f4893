package settings

import (
	"math"
	"strconv"

	"github.com/ducttape-dev/ducttape/input"
)

// Mapping binds a key to a named function.
type Mapping struct {
	Key      input.Code
	Function string
}

// Input maps keys to function names in insertion order. At most one function
// holds a given key; input.None is never considered mapped.
type Input struct {
	mappings         []Mapping
	mouseYInverted   bool
	mouseSensitivity float64
}

// NewInput returns empty input settings with sensitivity 1.
func NewInput() *Input {
	return &Input{mouseSensitivity: 1}
}

// DefaultInput returns the WASD + Space layout used by PlayerComponent.
func DefaultInput() *Input {
	in := NewInput()
	for _, m := range []struct {
		fn   string
		name string
	}{
		{"Forward", "W"},
		{"Backward", "S"},
		{"Left", "A"},
		{"Right", "D"},
		{"Jump", "Space"},
	} {
		code, _ := input.ParseCode(m.name)
		in.AddFunction(m.fn, code)
	}
	return in
}

func (in *Input) Name() string { return "Input" }

// AddFunction appends a mapping. It fails if the function exists or its name
// is not a valid element name. A key already held by another function is
// taken from it.
func (in *Input) AddFunction(function string, key input.Code) bool {
	if in.indexOfFunction(function) >= 0 {
		logger.Error("input function already exists", "function", function)
		return false
	}
	if !ValidName(function) {
		logger.Error("invalid input function name", "function", function)
		return false
	}
	in.unbind(key)
	in.mappings = append(in.mappings, Mapping{Key: key, Function: function})
	return true
}

// RemoveFunction deletes a mapping. It reports false if the function is unknown.
func (in *Input) RemoveFunction(function string) bool {
	i := in.indexOfFunction(function)
	if i < 0 {
		return false
	}
	in.mappings = append(in.mappings[:i], in.mappings[i+1:]...)
	return true
}

// SetKey binds key to an existing function, unbinding whichever function held
// it before. It reports false if the function is unknown.
func (in *Input) SetKey(function string, key input.Code) bool {
	i := in.indexOfFunction(function)
	if i < 0 {
		return false
	}
	if in.mappings[i].Key == key {
		return true
	}
	in.unbind(key)
	in.mappings[i].Key = key
	return true
}

// KeyFor returns the key bound to function, or None.
func (in *Input) KeyFor(function string) input.Code {
	if i := in.indexOfFunction(function); i >= 0 {
		return in.mappings[i].Key
	}
	return input.None
}

// FunctionFor returns the function bound to key.
func (in *Input) FunctionFor(key input.Code) (string, bool) {
	if i := in.indexOfKey(key); i >= 0 {
		return in.mappings[i].Function, true
	}
	return "", false
}

// HasFunction reports whether function has a mapping, bound or not.
func (in *Input) HasFunction(function string) bool {
	return in.indexOfFunction(function) >= 0
}

// IsMapped reports whether key is bound to a function. None never is.
func (in *Input) IsMapped(key input.Code) bool {
	return in.indexOfKey(key) >= 0
}

// Mappings returns a copy of the mappings in insertion order.
func (in *Input) Mappings() []Mapping {
	return append([]Mapping(nil), in.mappings...)
}

func (in *Input) MouseYInverted() bool          { return in.mouseYInverted }
func (in *Input) SetMouseYInverted(on bool)     { in.mouseYInverted = on }
func (in *Input) MouseSensitivity() float64     { return in.mouseSensitivity }
func (in *Input) SetMouseSensitivity(s float64) { in.mouseSensitivity = clipRange(s, 0, 1) }

func (in *Input) unbind(key input.Code) {
	if i := in.indexOfKey(key); i >= 0 {
		in.mappings[i].Key = input.None
	}
}

func (in *Input) indexOfFunction(function string) int {
	for i, m := range in.mappings {
		if m.Function == function {
			return i
		}
	}
	return -1
}

func (in *Input) indexOfKey(key input.Code) int {
	if key == input.None {
		return -1
	}
	for i, m := range in.mappings {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// OnToXML writes one element per function holding the key name. Mouse
// options are attributes of the parent.
func (in *Input) OnToXML(parent *Element) {
	parent.SetAttr("MouseYInverted", strconv.FormatBool(in.mouseYInverted))
	parent.SetAttr("MouseSensitivity", formatFloat(in.mouseSensitivity))
	for _, m := range in.mappings {
		parent.AddValue(m.Function, m.Key.String())
	}
}

// OnFromXML rebinds known functions and adds unknown ones in document order.
// Unknown key names bind the function to None.
func (in *Input) OnFromXML(parent *Element) {
	if parent == nil {
		return
	}
	if v, ok := parent.Attr("MouseYInverted"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			in.mouseYInverted = b
		}
	}
	if v, ok := parent.Attr("MouseSensitivity"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			in.SetMouseSensitivity(f)
		}
	}
	for _, child := range parent.Children {
		function := child.Name()
		key, ok := input.ParseCode(child.Value())
		if !ok {
			logger.Warn("unknown key name, leaving function unbound", "function", function, "key", child.Value())
		}
		if in.HasFunction(function) {
			in.SetKey(function, key)
		} else {
			in.AddFunction(function, key)
		}
	}
}
