package ducttape

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ducttape-dev/ducttape/physics"
)

// PhysicsBodyComponent puts a collision object for its node into the scene's
// physics world. Dynamic bodies drive the node's scene transform; static and
// kinematic bodies follow the node. The object is in the world only while the
// component is active and is released in OnDeinitialize.
type PhysicsBodyComponent struct {
	BaseComponent

	object *physics.Object
	world  *physics.World
	warned bool
}

// NewPhysicsBodyComponent creates a body of the given shape and type with
// mass 1.
func NewPhysicsBodyComponent(name string, shape physics.Shape, typ physics.BodyType) *PhysicsBodyComponent {
	o := physics.NewObject(shape)
	o.Type = typ
	return &PhysicsBodyComponent{BaseComponent: NewBaseComponent(name), object: o}
}

// Object returns the collision object, or nil after deinitialization.
func (c *PhysicsBodyComponent) Object() *physics.Object { return c.object }

// InWorld reports whether the object is currently in a physics world.
func (c *PhysicsBodyComponent) InWorld() bool {
	return c.object != nil && c.object.World() != nil
}

// Velocity returns the object velocity.
func (c *PhysicsBodyComponent) Velocity() mgl64.Vec3 {
	if c.object == nil {
		return mgl64.Vec3{}
	}
	return c.object.Velocity
}

// SetVelocity replaces the object velocity.
func (c *PhysicsBodyComponent) SetVelocity(v mgl64.Vec3) {
	if c.object != nil {
		c.object.Velocity = v
	}
}

// ApplyImpulse changes the velocity by impulse divided by mass.
func (c *PhysicsBodyComponent) ApplyImpulse(impulse mgl64.Vec3) {
	if c.object == nil || c.object.Mass <= 0 {
		return
	}
	c.object.Velocity = c.object.Velocity.Add(impulse.Mul(1 / c.object.Mass))
}

// SetMass sets the mass used by ApplyImpulse. Non-positive values are ignored.
func (c *PhysicsBodyComponent) SetMass(m float64) {
	if c.object != nil && m > 0 {
		c.object.Mass = m
	}
}

func (c *PhysicsBodyComponent) OnInitialize() {
	c.object.UserData = c
	c.attach()
}

func (c *PhysicsBodyComponent) OnDeinitialize() {
	c.detach()
	c.object.UserData = nil
	c.object = nil
}

func (c *PhysicsBodyComponent) OnEnable()  { c.attach() }
func (c *PhysicsBodyComponent) OnDisable() { c.detach() }

func (c *PhysicsBodyComponent) OnUpdate(float64) {
	if !c.InWorld() && !c.attach() {
		return
	}
	n := c.Node()
	if c.object.Type == physics.Dynamic {
		n.SetPosition(c.object.Position, RelativeToScene)
		n.SetRotation(c.object.Rotation, RelativeToScene)
		return
	}
	c.syncFromNode()
}

func (c *PhysicsBodyComponent) OnSerialize(p *Packet) {
	if c.object == nil {
		return
	}
	p.Stream("velocity", &c.object.Velocity)
	p.Stream("mass", &c.object.Mass)
}

func (c *PhysicsBodyComponent) syncFromNode() {
	n := c.Node()
	c.object.Position = n.Position(RelativeToScene)
	c.object.Rotation = n.Rotation(RelativeToScene)
}

// attach adds the object to the scene's physics world. It fails quietly, with
// a single warning, while the node is outside a scene.
func (c *PhysicsBodyComponent) attach() bool {
	if c.object == nil || c.InWorld() {
		return c.InWorld()
	}
	if !c.IsActive() {
		return false
	}
	s := c.Node().Scene()
	if s == nil {
		if !c.warned {
			logger.Warn("physics body has no scene yet", "component", c.Name(), "node", c.Node().FullName())
			c.warned = true
		}
		return false
	}
	c.syncFromNode()
	c.world = s.PhysicsWorld()
	return c.world.Add(c.object)
}

func (c *PhysicsBodyComponent) detach() {
	if c.world != nil && c.object != nil {
		c.world.Remove(c.object)
	}
	c.world = nil
}
