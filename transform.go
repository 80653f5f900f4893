package ducttape

import "github.com/go-gl/mathgl/mgl64"

// basis is a decomposed transform: translate(position) * rotate(rotation) * scale(scale).
type basis struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3
}

var identityBasis = basis{rotation: mgl64.QuatIdent(), scale: Vec3One}

// compose returns the basis of a child with local transform (p, q, s) under b.
//
//	position = b.rotation * (b.scale * p) + b.position
//	rotation = b.rotation * q
//	scale    = b.scale * s
func (b basis) compose(p mgl64.Vec3, q mgl64.Quat, s mgl64.Vec3) basis {
	return basis{
		position: b.rotation.Rotate(mulVec3(b.scale, p)).Add(b.position),
		rotation: b.rotation.Mul(q).Normalize(),
		scale:    mulVec3(b.scale, s),
	}
}

// toLocalPosition inverts the position part of compose.
func (b basis) toLocalPosition(world mgl64.Vec3) mgl64.Vec3 {
	return divVec3(b.rotation.Inverse().Rotate(world.Sub(b.position)), b.scale)
}

// sceneBasis composes the local transforms of n and all its ancestors.
func (n *Node) sceneBasis() basis {
	return n.parentBasis().compose(n.position, n.rotation, n.scale)
}

// parentBasis is the scene basis of n's parent, or identity at the root.
func (n *Node) parentBasis() basis {
	if n.parent == nil {
		return identityBasis
	}
	return n.parent.sceneBasis()
}

// --- Position ---

// Position returns the node position in the given space.
func (n *Node) Position(rel RelativeTo) mgl64.Vec3 {
	if rel == RelativeToScene {
		return n.sceneBasis().position
	}
	return n.position
}

// SetPosition moves the node. In scene space the local position is solved
// through the current parent chain.
func (n *Node) SetPosition(p mgl64.Vec3, rel RelativeTo) {
	if rel == RelativeToScene {
		p = n.parentBasis().toLocalPosition(p)
	}
	n.position = p
}

// Translate moves the node by d, expressed in the given space.
func (n *Node) Translate(d mgl64.Vec3, rel RelativeTo) {
	n.SetPosition(n.Position(rel).Add(d), rel)
}

// --- Rotation ---

// Rotation returns the node orientation in the given space.
func (n *Node) Rotation(rel RelativeTo) mgl64.Quat {
	if rel == RelativeToScene {
		return n.sceneBasis().rotation
	}
	return n.rotation
}

// SetRotation orients the node. The quaternion is normalized.
func (n *Node) SetRotation(q mgl64.Quat, rel RelativeTo) {
	q = q.Normalize()
	if rel == RelativeToScene {
		q = n.parentBasis().rotation.Inverse().Mul(q).Normalize()
	}
	n.rotation = q
}

// Rotate applies q on top of the current orientation in the given space.
func (n *Node) Rotate(q mgl64.Quat, rel RelativeTo) {
	n.SetRotation(q.Mul(n.Rotation(rel)), rel)
}

// --- Scale ---

// Scale returns the node scale in the given space.
func (n *Node) Scale(rel RelativeTo) mgl64.Vec3 {
	if rel == RelativeToScene {
		return n.sceneBasis().scale
	}
	return n.scale
}

// SetScale sets the node scale. Scene-space components whose parent scale is
// zero are stored unchanged.
func (n *Node) SetScale(s mgl64.Vec3, rel RelativeTo) {
	if rel == RelativeToScene {
		s = divVec3(s, n.parentBasis().scale)
	}
	n.scale = s
}

// SetScaleUniform sets all three scale components to f.
func (n *Node) SetScaleUniform(f float64, rel RelativeTo) {
	n.SetScale(mgl64.Vec3{f, f, f}, rel)
}

// --- Orientation helpers ---

// SetDirection turns the node so that its front axis (in its own local space)
// points along dir. dir is interpreted in the given space. A zero direction is
// ignored.
func (n *Node) SetDirection(dir, front mgl64.Vec3, rel RelativeTo) {
	if dir.Len() < 1e-12 || front.Len() < 1e-12 {
		logger.Warn("SetDirection: zero vector ignored", "node", n.FullName())
		return
	}
	q := mgl64.QuatBetweenVectors(front.Normalize(), dir.Normalize())
	n.SetRotation(q, rel)
}

// LookAt turns the node so that its front axis points at target, given in the
// same space as rel. Looking at the node's own position is ignored.
func (n *Node) LookAt(target, front mgl64.Vec3, rel RelativeTo) {
	n.SetDirection(target.Sub(n.Position(rel)), front, rel)
}

// Direction returns the node's front axis rotated into the given space.
func (n *Node) Direction(front mgl64.Vec3, rel RelativeTo) mgl64.Vec3 {
	return n.Rotation(rel).Rotate(front)
}

// --- Coordinate conversion ---

// SceneToLocal converts a scene-space point to this node's local space.
func (n *Node) SceneToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return n.sceneBasis().toLocalPosition(p)
}

// LocalToScene converts a point in this node's local space to scene space.
func (n *Node) LocalToScene(p mgl64.Vec3) mgl64.Vec3 {
	b := n.sceneBasis()
	return b.rotation.Rotate(mulVec3(b.scale, p)).Add(b.position)
}
