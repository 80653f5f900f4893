package input

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Source provides raw device state. Update is called once per frame before
// any state is read.
type Source interface {
	Update()
	Pressed(c Code) bool
	Cursor() (x, y float64)
}

// EventType distinguishes input events.
type EventType uint8

const (
	EventPressed EventType = iota
	EventReleased
	EventCursorMoved
)

func (t EventType) String() string {
	switch t {
	case EventPressed:
		return "pressed"
	case EventReleased:
		return "released"
	case EventCursorMoved:
		return "cursor_moved"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners by Manager.Update.
type Event struct {
	Type   EventType
	Code   Code    // EventPressed, EventReleased
	X, Y   float64 // cursor position
	DX, DY float64 // EventCursorMoved
}

// Listener receives input events.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Manager tracks pressed codes across frames.
type Manager struct {
	source    Source
	codes     []Code
	pressed   map[Code]bool
	previous  map[Code]bool
	x, y      float64
	dx, dy    float64
	polled    bool
	listeners []listenerEntry
	nextID    ListenerID
	logger    *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager reading from src. A nil src polls ebiten.
func NewManager(src Source, opts ...Option) *Manager {
	if src == nil {
		src = EbitenSource{}
	}
	m := &Manager{
		source:   src,
		codes:    AllCodes(),
		pressed:  make(map[Code]bool),
		previous: make(map[Code]bool),
		logger:   log.Default().WithPrefix("input"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Source returns the current source.
func (m *Manager) Source() Source { return m.source }

// SetSource swaps the device source. Held codes are released on the next Update.
func (m *Manager) SetSource(src Source) {
	if src == nil {
		return
	}
	m.source = src
	m.logger.Debug("input source replaced", "source", fmt.Sprintf("%T", src))
}

// Update polls the source and dispatches events: releases, then presses,
// then cursor movement, each in code order.
func (m *Manager) Update() {
	m.source.Update()

	m.previous, m.pressed = m.pressed, m.previous
	clear(m.pressed)
	for _, c := range m.codes {
		if m.source.Pressed(c) {
			m.pressed[c] = true
		}
	}

	x, y := m.source.Cursor()
	if m.polled {
		m.dx, m.dy = x-m.x, y-m.y
	}
	m.x, m.y = x, y
	m.polled = true

	if len(m.listeners) == 0 {
		return
	}
	for _, c := range m.codes {
		if m.previous[c] && !m.pressed[c] {
			m.dispatch(Event{Type: EventReleased, Code: c, X: x, Y: y})
		}
	}
	for _, c := range m.codes {
		if m.pressed[c] && !m.previous[c] {
			m.dispatch(Event{Type: EventPressed, Code: c, X: x, Y: y})
		}
	}
	if m.dx != 0 || m.dy != 0 {
		m.dispatch(Event{Type: EventCursorMoved, X: x, Y: y, DX: m.dx, DY: m.dy})
	}
}

func (m *Manager) dispatch(e Event) {
	m.logger.Debug("input event", "type", e.Type, "code", e.Code)
	for _, l := range append([]listenerEntry(nil), m.listeners...) {
		l.fn(e)
	}
}

// IsPressed reports whether c is held this frame. None is never pressed.
func (m *Manager) IsPressed(c Code) bool { return c != None && m.pressed[c] }

// JustPressed reports whether c went down this frame.
func (m *Manager) JustPressed(c Code) bool {
	return c != None && m.pressed[c] && !m.previous[c]
}

// JustReleased reports whether c went up this frame.
func (m *Manager) JustReleased(c Code) bool {
	return c != None && !m.pressed[c] && m.previous[c]
}

// Cursor returns the cursor position.
func (m *Manager) Cursor() (x, y float64) { return m.x, m.y }

// CursorDelta returns the cursor movement since the previous Update.
func (m *Manager) CursorDelta() (dx, dy float64) { return m.dx, m.dy }

// AddListener registers fn. Listeners run in registration order.
func (m *Manager) AddListener(fn Listener) ListenerID {
	m.nextID++
	m.listeners = append(m.listeners, listenerEntry{id: m.nextID, fn: fn})
	return m.nextID
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (m *Manager) RemoveListener(id ListenerID) {
	for i, l := range m.listeners {
		if l.id == id {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// EbitenSource reads the live keyboard and mouse through ebiten.
type EbitenSource struct{}

func (EbitenSource) Update() {}

func (EbitenSource) Pressed(c Code) bool {
	if k, ok := c.Key(); ok {
		return ebiten.IsKeyPressed(k)
	}
	if b, ok := c.MouseButton(); ok {
		return ebiten.IsMouseButtonPressed(b)
	}
	return false
}

func (EbitenSource) Cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}
