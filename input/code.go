// Package input polls keyboard and mouse state from a Source and dispatches
// press, release and cursor events to listeners in registration order.
package input

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Code identifies a key or mouse button. The zero value is None, which never
// counts as pressed or mapped.
type Code int

// None is the unbound code.
const None Code = 0

const mouseBase Code = 1 << 10

// Mouse button codes.
const (
	MouseLeft   = mouseBase + Code(ebiten.MouseButtonLeft)
	MouseRight  = mouseBase + Code(ebiten.MouseButtonRight)
	MouseMiddle = mouseBase + Code(ebiten.MouseButtonMiddle)
)

var mouseNames = map[Code]string{
	MouseLeft:   "MouseLeft",
	MouseRight:  "MouseRight",
	MouseMiddle: "MouseMiddle",
}

// KeyCode returns the code of an ebiten key.
func KeyCode(k ebiten.Key) Code { return Code(k) + 1 }

// MouseCode returns the code of an ebiten mouse button.
func MouseCode(b ebiten.MouseButton) Code { return mouseBase + Code(b) }

// Key returns the ebiten key for c, if c is a key code.
func (c Code) Key() (ebiten.Key, bool) {
	if c <= None || c >= mouseBase {
		return 0, false
	}
	k := ebiten.Key(c - 1)
	if k > ebiten.KeyMax {
		return 0, false
	}
	return k, true
}

// MouseButton returns the ebiten mouse button for c, if c is a mouse code.
func (c Code) MouseButton() (ebiten.MouseButton, bool) {
	if _, ok := mouseNames[c]; !ok {
		return 0, false
	}
	return ebiten.MouseButton(c - mouseBase), true
}

// IsValid reports whether c names a known key or mouse button.
func (c Code) IsValid() bool {
	if _, ok := c.Key(); ok {
		return true
	}
	_, ok := c.MouseButton()
	return ok
}

// String returns the key name as used in settings files: ebiten's key name
// ("W", "Space", "ArrowUp"), a mouse name ("MouseLeft") or "None".
func (c Code) String() string {
	if k, ok := c.Key(); ok {
		return k.String()
	}
	if name, ok := mouseNames[c]; ok {
		return name
	}
	return "None"
}

// ParseCode returns the code for a name produced by Code.String. Matching is
// case-insensitive. Unknown names yield None and false.
func ParseCode(name string) (Code, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "None") {
		return None, name != ""
	}
	for c, n := range mouseNames {
		if strings.EqualFold(n, name) {
			return c, true
		}
	}
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), name) {
			return KeyCode(k), true
		}
	}
	return None, false
}

// AllCodes returns every key code followed by the mouse codes.
func AllCodes() []Code {
	out := make([]Code, 0, int(ebiten.KeyMax)+1+len(mouseNames))
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		out = append(out, KeyCode(k))
	}
	return append(out, MouseLeft, MouseRight, MouseMiddle)
}
