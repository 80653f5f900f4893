package ducttape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

// assertQuat compares orientations, treating q and -q as equal.
func assertQuat(t *testing.T, name string, got, want mgl64.Quat) {
	t.Helper()
	if math.Abs(math.Abs(got.Dot(want))-1) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func yaw(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), UnitY)
}

// --- Defaults ---

func TestNewNodeIdentityTransform(t *testing.T) {
	n := NewNode("n")
	assertVec(t, "position", n.Position(RelativeToParent), mgl64.Vec3{})
	assertVec(t, "scale", n.Scale(RelativeToParent), Vec3One)
	assertQuat(t, "rotation", n.Rotation(RelativeToParent), mgl64.QuatIdent())
}

// --- Composition ---

func TestScenePositionComposesParents(t *testing.T) {
	root := NewNode("root")
	mid := root.AddChildNode(NewNode("mid"))
	leaf := mid.AddChildNode(NewNode("leaf"))

	root.SetPosition(mgl64.Vec3{10, 0, 0}, RelativeToParent)
	mid.SetRotation(yaw(90), RelativeToParent)
	mid.SetPosition(mgl64.Vec3{0, 1, 0}, RelativeToParent)
	leaf.SetPosition(mgl64.Vec3{1, 0, 0}, RelativeToParent)

	// yaw 90 turns +X into -Z.
	assertVec(t, "leaf scene position", leaf.Position(RelativeToScene), mgl64.Vec3{10, 1, -1})
	assertQuat(t, "leaf scene rotation", leaf.Rotation(RelativeToScene), yaw(90))
}

func TestSceneScaleAppliesToChildOffsets(t *testing.T) {
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	root.SetScale(mgl64.Vec3{2, 3, 4}, RelativeToParent)
	child.SetPosition(mgl64.Vec3{1, 1, 1}, RelativeToParent)
	child.SetScaleUniform(0.5, RelativeToParent)

	assertVec(t, "child position", child.Position(RelativeToScene), mgl64.Vec3{2, 3, 4})
	assertVec(t, "child scale", child.Scale(RelativeToScene), mgl64.Vec3{1, 1.5, 2})
}

func TestRootSceneEqualsLocal(t *testing.T) {
	n := NewNode("n")
	n.SetPosition(mgl64.Vec3{1, 2, 3}, RelativeToScene)
	assertVec(t, "local", n.Position(RelativeToParent), mgl64.Vec3{1, 2, 3})
}

// --- Scene-space setters ---

func TestSetScenePositionSolvesLocal(t *testing.T) {
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	root.SetPosition(mgl64.Vec3{5, 0, 0}, RelativeToParent)
	root.SetRotation(yaw(90), RelativeToParent)
	root.SetScaleUniform(2, RelativeToParent)

	target := mgl64.Vec3{3, 4, -7}
	child.SetPosition(target, RelativeToScene)
	assertVec(t, "round trip", child.Position(RelativeToScene), target)
}

func TestSetSceneRotationSolvesLocal(t *testing.T) {
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	root.SetRotation(yaw(30), RelativeToParent)

	child.SetRotation(yaw(90), RelativeToScene)
	assertQuat(t, "local", child.Rotation(RelativeToParent), yaw(60))
	assertQuat(t, "scene", child.Rotation(RelativeToScene), yaw(90))
}

func TestSetSceneScaleZeroParentComponent(t *testing.T) {
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	root.SetScale(mgl64.Vec3{2, 0, 1}, RelativeToParent)

	child.SetScale(mgl64.Vec3{4, 5, 6}, RelativeToScene)
	assertVec(t, "local scale", child.Scale(RelativeToParent), mgl64.Vec3{2, 5, 6})
}

func TestTranslateAndRotate(t *testing.T) {
	n := NewNode("n")
	n.Translate(mgl64.Vec3{1, 0, 0}, RelativeToParent)
	n.Translate(mgl64.Vec3{0, 2, 0}, RelativeToScene)
	assertVec(t, "position", n.Position(RelativeToParent), mgl64.Vec3{1, 2, 0})

	n.Rotate(yaw(45), RelativeToParent)
	n.Rotate(yaw(45), RelativeToParent)
	assertQuat(t, "rotation", n.Rotation(RelativeToParent), yaw(90))
}

func TestSetRotationNormalizes(t *testing.T) {
	n := NewNode("n")
	n.SetRotation(mgl64.Quat{W: 2}, RelativeToParent)
	assertNear(t, "len", n.Rotation(RelativeToParent).Len(), 1)
}

// --- Orientation ---

func TestSetDirectionPointsFront(t *testing.T) {
	n := NewNode("n")
	n.SetDirection(mgl64.Vec3{1, 0, 0}, UnitZ, RelativeToParent)
	assertVec(t, "direction", n.Direction(UnitZ, RelativeToParent), UnitX)
}

func TestSetDirectionZeroIgnored(t *testing.T) {
	n := NewNode("n")
	n.SetRotation(yaw(10), RelativeToParent)
	n.SetDirection(mgl64.Vec3{}, UnitZ, RelativeToParent)
	assertQuat(t, "rotation", n.Rotation(RelativeToParent), yaw(10))
}

func TestLookAtSceneSpace(t *testing.T) {
	root := NewNode("root")
	eye := root.AddChildNode(NewNode("eye"))
	root.SetRotation(yaw(90), RelativeToParent)
	eye.SetPosition(mgl64.Vec3{0, 0, 0}, RelativeToParent)

	eye.LookAt(mgl64.Vec3{5, 0, 0}, UnitZ, RelativeToScene)
	assertVec(t, "scene front", eye.Direction(UnitZ, RelativeToScene), UnitX)
}

// --- Conversion ---

func TestSceneToLocalInverse(t *testing.T) {
	root := NewNode("root")
	n := root.AddChildNode(NewNode("n"))
	root.SetPosition(mgl64.Vec3{1, 2, 3}, RelativeToParent)
	n.SetRotation(yaw(90), RelativeToParent)
	n.SetScaleUniform(2, RelativeToParent)

	p := mgl64.Vec3{0.5, -1, 2}
	assertVec(t, "round trip", n.SceneToLocal(n.LocalToScene(p)), p)
	assertVec(t, "origin", n.LocalToScene(mgl64.Vec3{}), n.Position(RelativeToScene))
}
