package ducttape

import "github.com/go-gl/mathgl/mgl64"

// RelativeTo selects the coordinate space used by transform getters and setters.
type RelativeTo uint8

const (
	RelativeToParent RelativeTo = iota // local value, relative to the parent node
	RelativeToScene                    // absolute value, relative to the scene root
)

// String returns the space name as used in logs and scripts.
func (r RelativeTo) String() string {
	switch r {
	case RelativeToParent:
		return "parent"
	case RelativeToScene:
		return "scene"
	default:
		return "unknown"
	}
}

// Axis vectors used as default "front" directions for SetDirection and LookAt.
var (
	UnitX    = mgl64.Vec3{1, 0, 0}
	UnitY    = mgl64.Vec3{0, 1, 0}
	UnitZ    = mgl64.Vec3{0, 0, 1}
	NegUnitZ = mgl64.Vec3{0, 0, -1}
)

// Vec3One is the default node scale.
var Vec3One = mgl64.Vec3{1, 1, 1}

// ComponentState is the lifecycle stage of a Component.
type ComponentState uint8

const (
	StateUninitialized ComponentState = iota // created, not yet attached to a node
	StateInitialized                         // attached and live; may be enabled or disabled
	StateDeinitialized                       // terminal; native resources released
)

// String returns a short lowercase name for the state.
func (s ComponentState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDeinitialized:
		return "deinitialized"
	default:
		return "unknown"
	}
}

// mulVec3 multiplies two vectors component-wise.
func mulVec3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// divVec3 divides a by b component-wise. Components of b that are zero leave
// the matching component of a unchanged, since no local value can produce
// them through a zero parent scale.
func divVec3(a, b mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range out {
		if b[i] > -1e-12 && b[i] < 1e-12 {
			out[i] = a[i]
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}
