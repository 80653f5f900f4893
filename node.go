package ducttape

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// NodeHooks customizes a Node the way a subclass would. All methods receive
// the node they are installed on. Embed NopHooks to implement a subset.
type NodeHooks interface {
	OnInitialize(n *Node)
	OnDeinitialize(n *Node)
	// OnUpdate runs after the node has updated its components and children.
	OnUpdate(n *Node, dt float64)
	OnEnable(n *Node)
	OnDisable(n *Node)
	OnSerialize(n *Node, p *Packet)
}

// NopHooks is a NodeHooks with empty methods.
type NopHooks struct{}

func (NopHooks) OnInitialize(*Node)         {}
func (NopHooks) OnDeinitialize(*Node)       {}
func (NopHooks) OnUpdate(*Node, float64)    {}
func (NopHooks) OnEnable(*Node)             {}
func (NopHooks) OnDisable(*Node)            {}
func (NopHooks) OnSerialize(*Node, *Packet) {}

// Node is the scene graph element. It owns its named children and components
// exclusively; the parent pointer is a plain back-reference.
type Node struct {
	// Identity
	id   uuid.UUID
	name string

	// Hierarchy
	parent     *Node
	scene      *Scene // non-nil only on a scene's own node
	children   map[string]*Node
	childOrder []string

	components     map[string]Component
	componentOrder []string

	// Transform (local)
	position mgl64.Vec3
	scale    mgl64.Vec3
	rotation mgl64.Quat

	// State
	enabled             bool
	deathMark           bool
	initialized         bool
	disposed            bool
	updatingAfterChange bool

	hooks NodeHooks
}

// NewNode creates a detached, enabled node with an identity transform. An empty
// name is replaced by one derived from the node's id.
func NewNode(name string) *Node {
	n := &Node{
		id:         uuid.New(),
		name:       name,
		children:   make(map[string]*Node),
		components: make(map[string]Component),
		scale:      Vec3One,
		rotation:   mgl64.QuatIdent(),
		enabled:    true,
	}
	if n.name == "" {
		n.name = "node-" + n.id.String()[:8]
	}
	return n
}

// ID returns the node's generated unique id.
func (n *Node) ID() uuid.UUID { return n.id }

// Name returns the node name, unique among its siblings.
func (n *Node) Name() string { return n.name }

// FullName returns the node name prefixed with the names of all its ancestors,
// separated by "/".
func (n *Node) FullName() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.FullName() + "/" + n.name
}

// Parent returns the parent node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Scene returns the nearest Scene at or above this node, or nil if the node
// is not part of a scene.
func (n *Node) Scene() *Scene {
	for p := n; p != nil; p = p.parent {
		if p.scene != nil {
			return p.scene
		}
	}
	return nil
}

// IsScene reports whether this node is the node of a Scene.
func (n *Node) IsScene() bool { return n.scene != nil }

// SetHooks installs subclass-style behavior. Scenes install their own hooks
// and ignore this call.
func (n *Node) SetHooks(h NodeHooks) {
	if n.scene != nil {
		logger.Warn("cannot replace scene hooks", "scene", n.name)
		return
	}
	n.hooks = h
}

// IsInitialized reports whether the node is live.
func (n *Node) IsInitialized() bool { return n.initialized }

// IsDisposed reports whether the node has been removed and destroyed.
func (n *Node) IsDisposed() bool { return n.disposed }

// --- Lifecycle ---

// Initialize makes the node live: it runs the OnInitialize hook, then
// initializes every component not yet initialized and every child.
// Calling it on a live node is a no-op.
func (n *Node) Initialize() {
	if checkDisposed(n, "Initialize") || n.initialized {
		return
	}
	n.initialized = true
	logger.Debug("node initialized", "node", n.FullName())
	if n.hooks != nil {
		n.hooks.OnInitialize(n)
	}
	for _, name := range n.snapshotComponents() {
		if c, ok := n.components[name]; ok {
			initializeComponent(c)
		}
	}
	for _, name := range n.snapshotChildren() {
		if child, ok := n.children[name]; ok {
			child.Initialize()
		}
	}
}

// Deinitialize tears the subtree down depth-first: children first, then this
// node's components, then its OnDeinitialize hook. Components end in
// StateDeinitialized and are never updated again.
func (n *Node) Deinitialize() {
	if n.disposed {
		return
	}
	for _, name := range n.snapshotChildren() {
		if child, ok := n.children[name]; ok {
			child.Deinitialize()
		}
	}
	for _, name := range n.snapshotComponents() {
		if c, ok := n.components[name]; ok {
			deinitializeComponent(c)
		}
	}
	if n.initialized {
		n.initialized = false
		if n.hooks != nil {
			n.hooks.OnDeinitialize(n)
		}
		logger.Debug("node deinitialized", "node", n.FullName())
	}
}

// --- Children ---

// AddChildNode attaches child under its name and returns it. It returns nil,
// leaving both trees unchanged, if the name is taken, the child already has a
// parent, or the child is an ancestor of n. A child attached to a live node is
// initialized immediately.
func (n *Node) AddChildNode(child *Node) *Node {
	if child == nil {
		logger.Error("cannot add nil child node", "parent", n.FullName())
		return nil
	}
	if checkDisposed(n, "AddChildNode (parent)") || checkDisposed(child, "AddChildNode (child)") {
		return nil
	}
	if child.parent != nil {
		logger.Error("cannot add child node: it already has a parent", "child", child.name, "parent", child.parent.FullName())
		return nil
	}
	if isAncestor(child, n) {
		logger.Error("cannot add child node: it would create a cycle", "child", child.name, "parent", n.FullName())
		return nil
	}
	if _, exists := n.children[child.name]; exists {
		logger.Error("cannot add child node: a child with this name already exists", "child", child.name, "parent", n.FullName())
		return nil
	}

	wasActive := child.enabled
	child.parent = n
	n.children[child.name] = child
	n.childOrder = append(n.childOrder, child.name)
	if wasActive && !child.IsActive() {
		child.deactivate()
	}
	if debugMode {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	if n.initialized {
		child.Initialize()
	}
	return child
}

// FindChildNode returns the first node named name in a depth-first pre-order
// walk of the subtree, or nil. With recursive false only direct children are
// considered.
func (n *Node) FindChildNode(name string, recursive bool) *Node {
	if !recursive {
		return n.children[name]
	}
	for _, childName := range n.childOrder {
		child := n.children[childName]
		if child.name == name {
			return child
		}
		if found := child.FindChildNode(name, true); found != nil {
			return found
		}
	}
	return nil
}

// Children returns the direct children in insertion order. The slice is a copy.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.childOrder))
	for _, name := range n.childOrder {
		out = append(out, n.children[name])
	}
	return out
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.childOrder) }

// RemoveChildNode deinitializes the child named name, detaches it and disposes
// its subtree. No-op if there is no such child.
func (n *Node) RemoveChildNode(name string) {
	child, ok := n.children[name]
	if !ok {
		return
	}
	child.Deinitialize()
	delete(n.children, name)
	n.childOrder = removeName(n.childOrder, name)
	child.parent = nil
	child.dispose()
}

// --- Components ---

// AddComponent attaches c, initializes it and returns it. It returns nil if a
// component with the same name exists on n or c already belongs to a node.
// When n is inactive the new component is force-disabled. A single guarded
// component update pass with zero time runs afterwards.
func (n *Node) AddComponent(c Component) Component {
	if c == nil {
		logger.Error("cannot add nil component", "node", n.FullName())
		return nil
	}
	if checkDisposed(n, "AddComponent") {
		return nil
	}
	b := c.base()
	if b.node != nil || b.state != StateUninitialized {
		logger.Error("cannot add component: it is already attached", "component", b.name, "node", n.FullName())
		return nil
	}
	if b.name == "" {
		b.name = "component-" + uuid.NewString()[:8]
	}
	if _, exists := n.components[b.name]; exists {
		logger.Error("cannot add component: a component with this name already exists", "component", b.name, "node", n.FullName())
		return nil
	}

	b.node = n
	b.self = c
	n.components[b.name] = c
	n.componentOrder = append(n.componentOrder, b.name)
	initializeComponent(c)

	if n.IsActive() {
		n.updateAllComponents(0)
	}
	return c
}

// Component returns the component named name, or nil.
func (n *Node) Component(name string) Component {
	return n.components[name]
}

// HasComponent reports whether a component named name is attached.
func (n *Node) HasComponent(name string) bool {
	_, ok := n.components[name]
	return ok
}

// Components returns the attached components in insertion order. The slice is a copy.
func (n *Node) Components() []Component {
	out := make([]Component, 0, len(n.componentOrder))
	for _, name := range n.componentOrder {
		out = append(out, n.components[name])
	}
	return out
}

// RemoveComponent deinitializes and releases the component named name.
// No-op if there is no such component.
func (n *Node) RemoveComponent(name string) {
	c, ok := n.components[name]
	if !ok {
		return
	}
	deinitializeComponent(c)
	delete(n.components, name)
	n.componentOrder = removeName(n.componentOrder, name)
}

// --- Enable state ---

// IsEnabled returns the node's own enabled flag.
func (n *Node) IsEnabled() bool { return n.enabled }

// IsActive reports whether this node and all of its ancestors are enabled.
func (n *Node) IsActive() bool {
	for p := n; p != nil; p = p.parent {
		if !p.enabled {
			return false
		}
	}
	return true
}

// Enable sets the node's flag. If that makes the node active, every component
// and child whose own flag is set becomes active again; flags cleared before
// are left alone.
func (n *Node) Enable() {
	if checkDisposed(n, "Enable") || n.enabled {
		return
	}
	n.enabled = true
	if n.IsActive() {
		n.activate()
	}
}

// Disable clears the node's flag. The subtree stops updating but keeps its
// own flags, so a later Enable restores it exactly.
func (n *Node) Disable() {
	if checkDisposed(n, "Disable") || !n.enabled {
		return
	}
	wasActive := n.IsActive()
	n.enabled = false
	if wasActive {
		n.deactivate()
	}
}

// activate fires enable hooks on a subtree that just became active.
func (n *Node) activate() {
	for _, name := range n.snapshotComponents() {
		c, ok := n.components[name]
		if ok && c.State() == StateInitialized && c.IsEnabled() {
			c.OnEnable()
		}
	}
	for _, name := range n.snapshotChildren() {
		child, ok := n.children[name]
		if ok && child.enabled {
			child.activate()
		}
	}
	if n.hooks != nil {
		n.hooks.OnEnable(n)
	}
}

// deactivate fires disable hooks on a subtree that just became inactive.
func (n *Node) deactivate() {
	for _, name := range n.snapshotComponents() {
		c, ok := n.components[name]
		if ok && c.State() == StateInitialized && c.IsEnabled() {
			c.OnDisable()
		}
	}
	for _, name := range n.snapshotChildren() {
		child, ok := n.children[name]
		if ok && child.enabled {
			child.deactivate()
		}
	}
	if n.hooks != nil {
		n.hooks.OnDisable(n)
	}
}

// --- Update ---

// Kill marks the node for removal. Its parent removes it after the next child
// update pass, never in the middle of a traversal.
func (n *Node) Kill() {
	n.deathMark = true
}

// IsDead reports whether the node is marked for removal.
func (n *Node) IsDead() bool { return n.deathMark }

// Update advances the subtree by dt seconds: active components first, then
// active children in insertion order, then removal of killed children, then
// the OnUpdate hook. Inactive nodes do nothing.
func (n *Node) Update(dt float64) {
	if n.disposed || !n.IsActive() {
		return
	}
	n.update(dt)
}

func (n *Node) update(dt float64) {
	n.updateAllComponents(dt)
	n.updateAllChildren(dt)
	if n.hooks != nil {
		n.hooks.OnUpdate(n, dt)
	}
}

// updateAllComponents updates each enabled, initialized component once. The
// updatingAfterChange flag stops a component that adds another component from
// re-entering this pass.
func (n *Node) updateAllComponents(dt float64) {
	if n.updatingAfterChange {
		return
	}
	n.updatingAfterChange = true
	for _, name := range n.snapshotComponents() {
		c, ok := n.components[name]
		if !ok || c.State() != StateInitialized || !c.IsEnabled() {
			continue
		}
		c.OnUpdate(dt)
		if n.disposed {
			return
		}
	}
	n.updatingAfterChange = false
}

func (n *Node) updateAllChildren(dt float64) {
	for _, name := range n.snapshotChildren() {
		child, ok := n.children[name]
		if !ok || child.deathMark || !child.enabled {
			continue
		}
		child.update(dt)
	}
	n.removeDeadChildren()
}

func (n *Node) removeDeadChildren() {
	var dead []string
	for _, name := range n.childOrder {
		if n.children[name].deathMark {
			dead = append(dead, name)
		}
	}
	// Deinitialize hooks may remove siblings or the node itself.
	for _, name := range dead {
		if n.disposed {
			return
		}
		child, ok := n.children[name]
		if !ok || !child.deathMark {
			continue
		}
		evt := NodeKilledEvent{ID: child.id, Name: child.name, FullName: child.FullName()}
		logger.Debug("removing killed node", "node", evt.FullName)
		n.RemoveChildNode(name)
		publish(n, NodeKilledEventType, evt)
	}
}

// --- Helpers ---

func (n *Node) snapshotChildren() []string {
	return append([]string(nil), n.childOrder...)
}

func (n *Node) snapshotComponents() []string {
	return append([]string(nil), n.componentOrder...)
}

// dispose marks the subtree as destroyed and drops its references.
func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.parent = nil
		child.dispose()
	}
	n.children = nil
	n.childOrder = nil
	n.components = nil
	n.componentOrder = nil
	n.parent = nil
	n.hooks = nil
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func removeName(names []string, name string) []string {
	for i, s := range names {
		if s == name {
			copy(names[i:], names[i+1:])
			names[len(names)-1] = ""
			return names[:len(names)-1]
		}
	}
	return names
}
