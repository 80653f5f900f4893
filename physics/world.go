// Package physics is a small collision world: rigid bodies, kinematic bodies
// and ghost objects with ray tests and overlap queries. It is the physics
// collaborator scenes hand to their components.
package physics

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType controls how Step treats an object.
type BodyType uint8

const (
	// Static objects never move and block dynamic ones.
	Static BodyType = iota
	// Dynamic objects fall under gravity and are pushed out of static objects.
	Dynamic
	// Kinematic objects are moved by their owner only.
	Kinematic
)

// Object is a collision object. Ghost objects detect overlaps but take no
// part in ray tests or collision response.
type Object struct {
	Shape    Shape
	Type     BodyType
	Ghost    bool
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Velocity mgl64.Vec3
	Mass     float64

	// UserData is returned in hits and overlaps; components store themselves here.
	UserData any

	world *World
}

// NewObject returns a static object with the given shape at the origin.
func NewObject(shape Shape) *Object {
	return &Object{Shape: shape, Rotation: mgl64.QuatIdent(), Mass: 1}
}

// NewGhost returns a ghost object with the given shape.
func NewGhost(shape Shape) *Object {
	o := NewObject(shape)
	o.Ghost = true
	return o
}

// World returns the world the object is in, or nil.
func (o *Object) World() *World { return o.world }

// Hit is the result of a ray test.
type Hit struct {
	Object   *Object
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Fraction float64 // position of the hit along the ray, 0 at from and 1 at to
}

// Option configures a World.
type Option func(*World)

// WithGravity sets the gravity vector. The default is (0, -9.81, 0).
func WithGravity(g mgl64.Vec3) Option {
	return func(w *World) { w.gravity = g }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// World holds collision objects in insertion order.
type World struct {
	gravity mgl64.Vec3
	objects []*Object
	logger  *log.Logger
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		gravity: mgl64.Vec3{0, -9.81, 0},
		logger:  log.Default().WithPrefix("physics"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Gravity returns the gravity vector.
func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

// SetGravity replaces the gravity vector.
func (w *World) SetGravity(g mgl64.Vec3) { w.gravity = g }

// Add inserts o. It returns false if o already belongs to a world.
func (w *World) Add(o *Object) bool {
	if o == nil {
		return false
	}
	if o.world != nil {
		w.logger.Warn("object already belongs to a world")
		return false
	}
	o.world = w
	w.objects = append(w.objects, o)
	return true
}

// Remove takes o out of the world. No-op if o is not in this world.
func (w *World) Remove(o *Object) {
	if o == nil || o.world != w {
		return
	}
	for i, obj := range w.objects {
		if obj == o {
			copy(w.objects[i:], w.objects[i+1:])
			w.objects[len(w.objects)-1] = nil
			w.objects = w.objects[:len(w.objects)-1]
			break
		}
	}
	o.world = nil
}

// Contains reports whether o is in this world.
func (w *World) Contains(o *Object) bool { return o != nil && o.world == w }

// Len returns the number of objects.
func (w *World) Len() int { return len(w.objects) }

// Objects returns a copy of the object list.
func (w *World) Objects() []*Object {
	return append([]*Object(nil), w.objects...)
}

// Step advances dynamic objects by dt seconds: gravity, integration, then
// separation from static objects they penetrate.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, o := range w.objects {
		if o.Type != Dynamic || o.Ghost {
			continue
		}
		o.Velocity = o.Velocity.Add(w.gravity.Mul(dt))
		o.Position = o.Position.Add(o.Velocity.Mul(dt))
		for _, other := range w.objects {
			if other == o || other.Ghost || other.Type != Static {
				continue
			}
			w.separate(o, other)
		}
	}
}

// separate pushes o out of the static object along the axis of least
// penetration of their bounding boxes and cancels velocity into it.
func (w *World) separate(o, static *Object) {
	if !overlaps(o.Shape, o.Position, static.Shape, static.Position) {
		return
	}
	aLo, aHi := o.Shape.bounds(o.Position)
	bLo, bHi := static.Shape.bounds(static.Position)
	axis, depth := -1, 0.0
	for i := 0; i < 3; i++ {
		up := bHi[i] - aLo[i]   // push o in +i
		down := aHi[i] - bLo[i] // push o in -i
		d := up
		if down < up {
			d = -down
		}
		if axis < 0 || abs(d) < abs(depth) {
			axis, depth = i, d
		}
	}
	o.Position[axis] += depth
	if (depth > 0 && o.Velocity[axis] < 0) || (depth < 0 && o.Velocity[axis] > 0) {
		o.Velocity[axis] = 0
	}
}

// RayTest returns the closest non-ghost object hit by the segment from-to.
// Objects listed in ignore are skipped.
func (w *World) RayTest(from, to mgl64.Vec3, ignore ...*Object) (Hit, bool) {
	var best Hit
	found := false
	for _, o := range w.objects {
		if o.Ghost || contains(ignore, o) {
			continue
		}
		t, normal, ok := rayHit(o.Shape, o.Position, from, to)
		if !ok {
			continue
		}
		if !found || t < best.Fraction {
			best = Hit{
				Object:   o,
				Point:    from.Add(to.Sub(from).Mul(t)),
				Normal:   normal,
				Fraction: t,
			}
			found = true
		}
	}
	return best, found
}

// Overlapping returns the non-ghost objects whose shape intersects o's, in
// insertion order. o need not be in the world.
func (w *World) Overlapping(o *Object) []*Object {
	var out []*Object
	for _, other := range w.objects {
		if other == o || other.Ghost {
			continue
		}
		if overlaps(o.Shape, o.Position, other.Shape, other.Position) {
			out = append(out, other)
		}
	}
	return out
}

func contains(list []*Object, o *Object) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
