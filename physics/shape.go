package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind identifies the geometry of a Shape.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

// Shape is a collision shape centred on its object's position. Boxes are
// treated as axis-aligned in scene space; the object rotation does not
// affect collision.
type Shape struct {
	Kind        ShapeKind
	Radius      float64    // sphere
	HalfExtents mgl64.Vec3 // box
}

// Sphere returns a sphere shape of radius r.
func Sphere(r float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: math.Abs(r)}
}

// Box returns an axis-aligned box with the given half extents.
func Box(halfExtents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{
		math.Abs(halfExtents[0]), math.Abs(halfExtents[1]), math.Abs(halfExtents[2]),
	}}
}

// Extents returns the half extents of the shape's axis-aligned bounding box.
func (s Shape) Extents() mgl64.Vec3 {
	if s.Kind == ShapeSphere {
		return mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	}
	return s.HalfExtents
}

// bounds returns the shape's axis-aligned bounding box at pos.
func (s Shape) bounds(pos mgl64.Vec3) (lo, hi mgl64.Vec3) {
	ext := s.Extents()
	return pos.Sub(ext), pos.Add(ext)
}

// overlaps reports whether shape a at pa intersects shape b at pb.
func overlaps(a Shape, pa mgl64.Vec3, b Shape, pb mgl64.Vec3) bool {
	switch {
	case a.Kind == ShapeSphere && b.Kind == ShapeSphere:
		r := a.Radius + b.Radius
		d := pa.Sub(pb)
		return d.Dot(d) <= r*r
	case a.Kind == ShapeSphere && b.Kind == ShapeBox:
		return sphereBox(pa, a.Radius, b, pb)
	case a.Kind == ShapeBox && b.Kind == ShapeSphere:
		return sphereBox(pb, b.Radius, a, pa)
	default:
		aLo, aHi := a.bounds(pa)
		bLo, bHi := b.bounds(pb)
		for i := 0; i < 3; i++ {
			if aHi[i] < bLo[i] || bHi[i] < aLo[i] {
				return false
			}
		}
		return true
	}
}

func sphereBox(center mgl64.Vec3, radius float64, box Shape, boxPos mgl64.Vec3) bool {
	lo, hi := box.bounds(boxPos)
	var d2 float64
	for i := 0; i < 3; i++ {
		c := math.Max(lo[i], math.Min(center[i], hi[i]))
		diff := center[i] - c
		d2 += diff * diff
	}
	return d2 <= radius*radius
}

// rayHit intersects the segment from+t*(to-from), t in [0,1], with the shape
// at pos. It returns the entry fraction and surface normal.
func rayHit(s Shape, pos, from, to mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	dir := to.Sub(from)
	if s.Kind == ShapeSphere {
		return raySphere(pos, s.Radius, from, dir)
	}
	lo, hi := s.bounds(pos)
	return rayBox(lo, hi, from, dir)
}

func raySphere(center mgl64.Vec3, radius float64, from, dir mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	m := from.Sub(center)
	a := dir.Dot(dir)
	if a == 0 {
		return 0, mgl64.Vec3{}, false
	}
	b := m.Dot(dir)
	c := m.Dot(m) - radius*radius
	if c <= 0 {
		// Starts inside.
		return 0, m.Normalize(), true
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := (-b - math.Sqrt(disc)) / a
	if t < 0 || t > 1 {
		return 0, mgl64.Vec3{}, false
	}
	point := from.Add(dir.Mul(t))
	return t, point.Sub(center).Normalize(), true
}

// rayBox is the slab test.
func rayBox(lo, hi, from, dir mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	tMin, tMax := 0.0, 1.0
	var normal mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if from[i] < lo[i] || from[i] > hi[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - from[i]) * inv
		t2 := (hi[i] - from[i]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[i] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}
	return tMin, normal, true
}
