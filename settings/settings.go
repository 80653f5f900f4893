// Package settings persists named configuration bags as XML. Each Settings
// value owns one document whose top element carries its name:
//
//	<Audio>
//	  <Master_Volume>80</Master_Volume>
//	  <Music_Volume>60</Music_Volume>
//	  <Sound_Volume>100</Sound_Volume>
//	</Audio>
//
// Reading never fails on missing elements: whatever is absent keeps its
// current value.
package settings

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "settings"})

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Settings is a named, XML-serializable configuration bag.
type Settings interface {
	// Name is the top element name and the file stem.
	Name() string
	// OnToXML writes the fields as children or attributes of parent.
	OnToXML(parent *Element)
	// OnFromXML reads the fields back. parent is nil when the document has no
	// element for these settings; implementations keep their values then.
	OnFromXML(parent *Element)
}

// ToXML returns the top element for s.
func ToXML(s Settings) *Element {
	root := NewElement(s.Name())
	s.OnToXML(root)
	return root
}

// FromXML applies the element for s found in doc. doc may be the settings
// element itself or an element containing it; nil resets nothing.
func FromXML(doc *Element, s Settings) {
	var parent *Element
	if doc != nil && doc.Name() == s.Name() {
		parent = doc
	} else {
		parent = doc.Child(s.Name())
	}
	s.OnFromXML(parent)
}

// Save writes s as an indented XML document.
func Save(w io.Writer, s Settings) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.Name(), err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(ToXML(s)); err != nil {
		return fmt.Errorf("settings: encode %s: %w", s.Name(), err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.Name(), err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Load reads an XML document into s. An empty document keeps every value.
func Load(r io.Reader, s Settings) error {
	var root Element
	err := xml.NewDecoder(r).Decode(&root)
	if errors.Is(err, io.EOF) {
		FromXML(nil, s)
		return nil
	}
	if err != nil {
		return fmt.Errorf("settings: decode %s: %w", s.Name(), err)
	}
	FromXML(&root, s)
	return nil
}

// clipRange clamps v to [lo, hi]; NaN maps to lo.
func clipRange(v, lo, hi float64) float64 {
	switch {
	case v < lo || math.IsNaN(v):
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
