package ducttape

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ducttape-dev/ducttape/physics"
)

// RaycastComponent probes the physics world along its node's front axis.
// Check casts a ray of Range units from the node's scene position and
// publishes a RaycastHitEvent for the closest object hit. Bodies and triggers
// on the same node are ignored.
type RaycastComponent struct {
	BaseComponent

	// Range is the ray length in scene units.
	Range float64
	// Front is the node-local axis the ray follows.
	Front mgl64.Vec3
	// Cooldown is the minimum time in seconds between two checks.
	Cooldown float64

	sinceCheck float64
}

// NewRaycastComponent creates a probe with range 10 along UnitZ and no cooldown.
func NewRaycastComponent(name string) *RaycastComponent {
	return &RaycastComponent{BaseComponent: NewBaseComponent(name), Range: 10, Front: UnitZ}
}

func (c *RaycastComponent) OnInitialize() {
	c.sinceCheck = c.Cooldown
}

func (c *RaycastComponent) OnUpdate(dt float64) {
	c.sinceCheck += dt
}

func (c *RaycastComponent) OnSerialize(p *Packet) {
	p.Stream("range", &c.Range)
	p.Stream("front", &c.Front)
	p.Stream("cooldown", &c.Cooldown)
}

// Ready reports whether the cooldown has elapsed.
func (c *RaycastComponent) Ready() bool { return c.sinceCheck >= c.Cooldown }

// Check casts the ray. It returns false when the component is inactive,
// cooling down, outside a scene, or the ray hits nothing. A check that runs
// restarts the cooldown whether or not it hits.
func (c *RaycastComponent) Check() (physics.Hit, bool) {
	if !c.IsActive() || !c.Ready() {
		return physics.Hit{}, false
	}
	n := c.Node()
	s := n.Scene()
	if s == nil {
		logger.Warn("raycast outside a scene", "component", c.Name(), "node", n.FullName())
		return physics.Hit{}, false
	}
	c.sinceCheck = 0

	from := n.Position(RelativeToScene)
	dir := n.Direction(c.Front, RelativeToScene)
	if dir.Len() < 1e-12 {
		return physics.Hit{}, false
	}
	to := from.Add(dir.Normalize().Mul(c.Range))

	hit, ok := s.PhysicsWorld().RayTest(from, to, ownObjects(n)...)
	if !ok {
		return physics.Hit{}, false
	}
	body, _ := hit.Object.UserData.(*PhysicsBodyComponent)
	publish(n, RaycastHitEventType, RaycastHitEvent{
		Raycast:  c,
		Body:     body,
		Object:   hit.Object,
		Point:    hit.Point,
		Distance: hit.Fraction * c.Range,
	})
	return hit, true
}

// ownObjects collects the collision objects owned by components of n.
func ownObjects(n *Node) []*physics.Object {
	var out []*physics.Object
	for _, b := range ComponentsOf[*PhysicsBodyComponent](n) {
		if o := b.Object(); o != nil {
			out = append(out, o)
		}
	}
	for _, t := range ComponentsOf[*TriggerAreaComponent](n) {
		if g := t.Ghost(); g != nil {
			out = append(out, g)
		}
	}
	return out
}
