package settings

import (
	"encoding/xml"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Element is a generic XML element. Attributes, text and children survive a
// decode/encode round trip in document order.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Element `xml:",any"`
}

// NewElement returns an empty element.
func NewElement(name string) *Element {
	return &Element{XMLName: xml.Name{Local: name}}
}

// Name returns the local element name.
func (e *Element) Name() string {
	if e == nil {
		return ""
	}
	return e.XMLName.Local
}

// Child returns the first child called name, or nil. It is safe on a nil element.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

// AddChild appends a new child element and returns it.
func (e *Element) AddChild(name string) *Element {
	c := NewElement(name)
	e.Children = append(e.Children, c)
	return c
}

// AddValue appends a child element holding value as text.
func (e *Element) AddValue(name, value string) *Element {
	c := e.AddChild(name)
	c.Text = value
	return c
}

// Value returns the element text without surrounding whitespace.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text)
}

// Attr returns the attribute called name.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// ChildFloat parses the text of child name. Missing or malformed values
// report false; malformed ones are logged.
func (e *Element) ChildFloat(name string) (float64, bool) {
	c := e.Child(name)
	if c == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(c.Value(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		logger.Warn("ignoring malformed number", "element", name, "value", c.Value())
		return 0, false
	}
	return f, true
}

// ChildInt parses the text of child name as an integer.
func (e *Element) ChildInt(name string) (int, bool) {
	c := e.Child(name)
	if c == nil {
		return 0, false
	}
	i, err := strconv.Atoi(c.Value())
	if err != nil {
		logger.Warn("ignoring malformed integer", "element", name, "value", c.Value())
		return 0, false
	}
	return i, true
}

// ChildBool parses the text of child name as a boolean.
func (e *Element) ChildBool(name string) (bool, bool) {
	c := e.Child(name)
	if c == nil {
		return false, false
	}
	b, err := strconv.ParseBool(c.Value())
	if err != nil {
		logger.Warn("ignoring malformed boolean", "element", name, "value", c.Value())
		return false, false
	}
	return b, true
}

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// ValidName reports whether name can be used as an element name. Names
// starting with "xml" in any case are reserved.
func ValidName(name string) bool {
	return xmlName.MatchString(name) && !strings.HasPrefix(strings.ToLower(name), "xml")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
