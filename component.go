package ducttape

// Component is a unit of behavior owned by exactly one Node.
//
// Concrete components embed BaseComponent, which implements the lifecycle
// bookkeeping and provides no-op hooks, and override the hooks they need:
//
//	type Health struct {
//		ducttape.BaseComponent
//		HP int
//	}
//
//	func (h *Health) OnUpdate(dt float64) { ... }
//
// The owning Node drives the lifecycle: OnInitialize runs once when the
// component is added, OnUpdate runs each frame while the component and every
// node up to the root are enabled, and OnDeinitialize runs exactly once before
// the component is released, whichever way it leaves the tree.
type Component interface {
	Name() string
	Node() *Node
	State() ComponentState
	IsEnabled() bool
	IsActive() bool
	Enable()
	Disable()

	OnInitialize()
	OnDeinitialize()
	OnUpdate(dt float64)
	OnEnable()
	OnDisable()
	OnSerialize(p *Packet)

	base() *BaseComponent
}

// BaseComponent carries the state shared by all components. Embed it by value.
// The zero value is an enabled, unnamed component; AddComponent generates a
// name for it.
type BaseComponent struct {
	name     string
	node     *Node
	self     Component
	state    ComponentState
	disabled bool
}

// NewBaseComponent returns an enabled BaseComponent with the given name.
func NewBaseComponent(name string) BaseComponent {
	return BaseComponent{name: name}
}

func (b *BaseComponent) base() *BaseComponent { return b }

// Name returns the component name, unique within its node.
func (b *BaseComponent) Name() string { return b.name }

// Node returns the owning node, or nil before the component is attached.
func (b *BaseComponent) Node() *Node { return b.node }

// State returns the lifecycle stage.
func (b *BaseComponent) State() ComponentState { return b.state }

// IsEnabled returns the component's own enabled flag. A component on a
// disabled node keeps its flag but is not active.
func (b *BaseComponent) IsEnabled() bool { return !b.disabled }

// IsActive reports whether the component is live and enabled on an active node.
func (b *BaseComponent) IsActive() bool {
	return b.state == StateInitialized && !b.disabled && b.node != nil && b.node.IsActive()
}

// Enable sets the enabled flag. OnEnable fires only if the component becomes
// active, so enabling a component on a disabled node just records the flag.
func (b *BaseComponent) Enable() {
	if !b.disabled {
		return
	}
	b.disabled = false
	if b.IsActive() {
		b.self.OnEnable()
	}
}

// Disable clears the enabled flag, firing OnDisable if the component was active.
func (b *BaseComponent) Disable() {
	if b.disabled {
		return
	}
	wasActive := b.IsActive()
	b.disabled = true
	if wasActive {
		b.self.OnDisable()
	}
}

// Default hooks.

func (b *BaseComponent) OnInitialize()         {}
func (b *BaseComponent) OnDeinitialize()       {}
func (b *BaseComponent) OnUpdate(dt float64)   {}
func (b *BaseComponent) OnEnable()             {}
func (b *BaseComponent) OnDisable()            {}
func (b *BaseComponent) OnSerialize(p *Packet) {}

// initializeComponent moves c from Uninitialized to Initialized. If the owner
// is inactive the component is force-disabled: OnDisable fires but the stored
// flag is kept so re-enabling the node restores it.
func initializeComponent(c Component) {
	b := c.base()
	if b.state != StateUninitialized {
		return
	}
	b.state = StateInitialized
	c.OnInitialize()
	if !b.disabled && !b.node.IsActive() {
		c.OnDisable()
	}
}

// deinitializeComponent runs OnDeinitialize once. Later calls are no-ops.
func deinitializeComponent(c Component) {
	b := c.base()
	if b.state == StateDeinitialized {
		return
	}
	wasInitialized := b.state == StateInitialized
	b.state = StateDeinitialized
	if wasInitialized {
		c.OnDeinitialize()
	}
}

// --- Typed access ---

// AddComponent attaches c to n and returns it typed. It returns the zero value
// of T if the name is already taken on n or c already belongs to a node.
func AddComponent[T Component](n *Node, c T) T {
	var zero T
	if n.AddComponent(c) == nil {
		return zero
	}
	return FindComponent[T](n, c.Name())
}

// FindComponent returns the component named name if it exists and its dynamic
// type is T, and the zero value of T otherwise.
func FindComponent[T Component](n *Node, name string) T {
	var zero T
	c := n.Component(name)
	if c == nil {
		return zero
	}
	typed, ok := c.(T)
	if !ok {
		return zero
	}
	return typed
}

// ComponentsOf returns every component of n whose dynamic type is T, in
// insertion order.
func ComponentsOf[T Component](n *Node) []T {
	var out []T
	for _, name := range n.componentOrder {
		if typed, ok := n.components[name].(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
