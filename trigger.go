package ducttape

import (
	"github.com/ducttape-dev/ducttape/physics"
)

// TriggerAreaComponent watches a volume around its node and publishes a
// TriggeredEvent for every non-ghost object inside it, each frame.
//
// The component is the single owner of its ghost object. Disabling the
// component removes the ghost from the world and drops it; enabling creates a
// fresh ghost from the stored shape. Objects owned by components of the same
// node never trigger it.
type TriggerAreaComponent struct {
	BaseComponent

	shape  physics.Shape
	ghost  *physics.Object
	world  *physics.World
	warned bool
}

// NewTriggerAreaComponent creates a trigger with the given shape.
func NewTriggerAreaComponent(name string, shape physics.Shape) *TriggerAreaComponent {
	return &TriggerAreaComponent{BaseComponent: NewBaseComponent(name), shape: shape}
}

// AreaShape returns the trigger shape.
func (c *TriggerAreaComponent) AreaShape() physics.Shape { return c.shape }

// SetAreaShape replaces the trigger shape. A live ghost is recreated with it.
func (c *TriggerAreaComponent) SetAreaShape(shape physics.Shape) {
	c.shape = shape
	if c.ghost != nil {
		c.dropGhost()
		c.createGhost()
	}
}

// Ghost returns the ghost object, or nil while the component is inactive.
func (c *TriggerAreaComponent) Ghost() *physics.Object { return c.ghost }

func (c *TriggerAreaComponent) OnInitialize()   { c.createGhost() }
func (c *TriggerAreaComponent) OnDeinitialize() { c.dropGhost() }
func (c *TriggerAreaComponent) OnEnable()       { c.createGhost() }
func (c *TriggerAreaComponent) OnDisable()      { c.dropGhost() }

func (c *TriggerAreaComponent) OnUpdate(float64) {
	if c.ghost == nil && !c.createGhost() {
		return
	}
	n := c.Node()
	c.ghost.Position = n.Position(RelativeToScene)
	c.ghost.Rotation = n.Rotation(RelativeToScene)

	for _, o := range c.world.Overlapping(c.ghost) {
		other, _ := o.UserData.(Component)
		if other != nil && other.Node() == n {
			continue
		}
		publish(n, TriggeredEventType, TriggeredEvent{Trigger: c, Other: other, Object: o})
	}
}

func (c *TriggerAreaComponent) createGhost() bool {
	if c.ghost != nil {
		return true
	}
	if !c.IsActive() {
		return false
	}
	n := c.Node()
	s := n.Scene()
	if s == nil {
		if !c.warned {
			logger.Warn("trigger area has no scene yet", "component", c.Name(), "node", n.FullName())
			c.warned = true
		}
		return false
	}
	g := physics.NewGhost(c.shape)
	g.UserData = c
	g.Position = n.Position(RelativeToScene)
	g.Rotation = n.Rotation(RelativeToScene)
	if !s.PhysicsWorld().Add(g) {
		return false
	}
	c.ghost = g
	c.world = s.PhysicsWorld()
	return true
}

func (c *TriggerAreaComponent) dropGhost() {
	if c.ghost == nil {
		return
	}
	c.world.Remove(c.ghost)
	c.ghost.UserData = nil
	c.ghost = nil
	c.world = nil
}
