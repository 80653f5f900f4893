package ducttape

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Packet is a bidirectional serialization buffer. The same OnSerialize code
// writes state into a packet created with NewPacket and reads it back from a
// packet created with ReadPacket:
//
//	func (h *Health) OnSerialize(p *ducttape.Packet) {
//		p.Stream("hp", &h.HP)
//	}
//
// Packets are trees: Child returns a named sub-packet in the same mode.
type Packet struct {
	reading  bool
	fields   map[string]json.RawMessage
	children map[string]*Packet
	err      error
}

// packetJSON is the encoded form of a Packet.
type packetJSON struct {
	Fields   map[string]json.RawMessage `json:"fields,omitempty"`
	Children map[string]*packetJSON     `json:"children,omitempty"`
}

// NewPacket returns an empty packet in write mode.
func NewPacket() *Packet {
	return &Packet{
		fields:   make(map[string]json.RawMessage),
		children: make(map[string]*Packet),
	}
}

// ReadPacket decodes data produced by Packet.Bytes into a packet in read mode.
func ReadPacket(data []byte) (*Packet, error) {
	var raw packetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("read packet: %w", err)
	}
	return fromPacketJSON(&raw), nil
}

func fromPacketJSON(raw *packetJSON) *Packet {
	p := &Packet{
		reading:  true,
		fields:   raw.Fields,
		children: make(map[string]*Packet, len(raw.Children)),
	}
	if p.fields == nil {
		p.fields = make(map[string]json.RawMessage)
	}
	for name, c := range raw.Children {
		if c != nil {
			p.children[name] = fromPacketJSON(c)
		}
	}
	return p
}

// IsReading reports whether the packet restores values instead of recording them.
func (p *Packet) IsReading() bool { return p.reading }

// Stream records *ptr under key in write mode. In read mode it decodes the
// value stored under key into ptr; a missing key leaves *ptr untouched.
// ptr must be a pointer. The first error is kept and later calls are no-ops.
func (p *Packet) Stream(key string, ptr any) {
	if p.err != nil {
		return
	}
	if p.reading {
		raw, ok := p.fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(raw, ptr); err != nil {
			p.err = fmt.Errorf("packet field %q: %w", key, err)
		}
		return
	}
	data, err := json.Marshal(ptr)
	if err != nil {
		p.err = fmt.Errorf("packet field %q: %w", key, err)
		return
	}
	p.fields[key] = data
}

// Has reports whether a field named key is present.
func (p *Packet) Has(key string) bool {
	_, ok := p.fields[key]
	return ok
}

// Keys returns the field names in sorted order.
func (p *Packet) Keys() []string {
	return slices.Sorted(maps.Keys(p.fields))
}

// Raw returns the encoded value stored under key.
func (p *Packet) Raw(key string) (json.RawMessage, bool) {
	raw, ok := p.fields[key]
	return raw, ok
}

// ChildNames returns the names of the sub-packets in sorted order.
func (p *Packet) ChildNames() []string {
	return slices.Sorted(maps.Keys(p.children))
}

// Child returns the sub-packet called name, creating it if needed. In read
// mode a missing child is an empty packet, so reads from it keep defaults.
func (p *Packet) Child(name string) *Packet {
	if c, ok := p.children[name]; ok {
		return c
	}
	c := &Packet{
		reading:  p.reading,
		fields:   make(map[string]json.RawMessage),
		children: make(map[string]*Packet),
	}
	if !p.reading {
		p.children[name] = c
	}
	return c
}

// Err returns the first error recorded by this packet or any of its children.
func (p *Packet) Err() error {
	if p.err != nil {
		return p.err
	}
	for _, c := range p.children {
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Bytes encodes the packet tree.
func (p *Packet) Bytes() ([]byte, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(p.toJSON())
}

func (p *Packet) toJSON() *packetJSON {
	out := &packetJSON{Fields: p.fields}
	if len(p.children) > 0 {
		out.Children = make(map[string]*packetJSON, len(p.children))
		for name, c := range p.children {
			out.Children[name] = c.toJSON()
		}
	}
	return out
}

// Serialize streams the node's transform and enabled flag, then the state of
// its components and children. Reading restores state onto the existing tree;
// components and children missing from the tree are skipped, never created.
func (n *Node) Serialize(p *Packet) {
	if checkDisposed(n, "Serialize") {
		return
	}
	if !p.IsReading() {
		id := n.id.String()
		p.Stream("id", &id)
	}
	p.Stream("position", &n.position)
	p.Stream("rotation", &n.rotation)
	p.Stream("scale", &n.scale)

	enabled := n.enabled
	p.Stream("enabled", &enabled)
	if p.IsReading() && enabled != n.enabled {
		if enabled {
			n.Enable()
		} else {
			n.Disable()
		}
	}

	comps := p.Child("components")
	for _, name := range n.componentOrder {
		c := n.components[name]
		cp := comps.Child(name)
		compEnabled := c.IsEnabled()
		cp.Stream("enabled", &compEnabled)
		if cp.IsReading() && compEnabled != c.IsEnabled() {
			if compEnabled {
				c.Enable()
			} else {
				c.Disable()
			}
		}
		c.OnSerialize(cp)
	}

	children := p.Child("children")
	for _, name := range n.childOrder {
		n.children[name].Serialize(children.Child(name))
	}

	if n.hooks != nil {
		n.hooks.OnSerialize(n, p)
	}
}
