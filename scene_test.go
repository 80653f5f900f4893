package ducttape

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/ducttape-dev/ducttape/physics"
)

func TestNewScene(t *testing.T) {
	s := NewScene("level")
	if !s.IsScene() || s.Name() != "level" {
		t.Error("scene node not marked as scene")
	}
	if s.Scene() != s {
		t.Error("scene should resolve to itself")
	}
	if s.PhysicsWorld() == nil || s.Events() == nil {
		t.Error("scene should own a physics world and an event world")
	}
	if s.Engine() != nil || s.SceneManager() != nil {
		t.Error("detached scene should have no engine or manager")
	}
}

func TestSceneOptions(t *testing.T) {
	w := physics.NewWorld(physics.WithGravity(mgl64.Vec3{}))
	m := &DebugSceneManager{}
	s := NewScene("level", WithPhysicsWorld(w), WithSceneManager(m))
	if s.PhysicsWorld() != w {
		t.Error("physics world option ignored")
	}
	if s.SceneManager() != m {
		t.Error("scene manager option ignored")
	}
}

func TestNodeResolvesScene(t *testing.T) {
	s := NewScene("level")
	leaf := s.AddChildNode(NewNode("a")).AddChildNode(NewNode("b"))
	if leaf.Scene() != s {
		t.Error("descendant does not resolve its scene")
	}
	if leaf.IsScene() {
		t.Error("plain node reports IsScene")
	}
}

func TestSceneHooksCannotBeReplaced(t *testing.T) {
	s := NewScene("level")
	e := newTestEngine(t)
	e.AddScene(s)
	s.SetHooks(NopHooks{})
	e.Initialize()
	if len(e.listeners) != 1 {
		t.Error("scene hooks replaced; scene not registered for frames")
	}
}

func TestSceneHandleFrameOrder(t *testing.T) {
	s := NewScene("level", WithPhysicsWorld(physics.NewWorld(physics.WithGravity(mgl64.Vec3{0, -10, 0}))))
	body := physics.NewObject(physics.Sphere(1))
	body.Type = physics.Dynamic
	s.PhysicsWorld().Add(body)

	var seenY float64
	probe := newRecorder("probe", nil)
	probe.onUpd = func(*recorder) { seenY = body.Position.Y() }
	s.AddComponent(probe)

	s.HandleFrame(0.1)
	if seenY != 0 {
		t.Errorf("tree update saw y=%v, want the pre-step value 0", seenY)
	}
	if body.Position.Y() >= 0 {
		t.Error("physics did not step after the tree update")
	}
}

func TestSceneEventsDeliveredAfterFrame(t *testing.T) {
	s := NewScene("level")
	var got []string
	NodeKilledEventType.Subscribe(s.Events(), func(w donburi.World, e NodeKilledEvent) {
		got = append(got, e.FullName)
	})
	s.AddChildNode(NewNode("a")).Kill()
	s.AddChildNode(NewNode("b")).Kill()

	s.HandleFrame(0.1)
	if len(got) != 2 || got[0] != "level/a" || got[1] != "level/b" {
		t.Errorf("killed events = %v", got)
	}
	if s.NumChildren() != 0 {
		t.Error("killed nodes not removed")
	}
}

func TestDisabledSceneSkipsFrame(t *testing.T) {
	s := NewScene("level")
	r := newRecorder("r", nil)
	s.AddComponent(r)
	s.Disable()
	before := r.updates
	s.HandleFrame(0.1)
	if r.updates != before {
		t.Error("disabled scene updated")
	}
}

func TestSceneSnapshotRestore(t *testing.T) {
	s := NewScene("level")
	n := s.AddChildNode(NewNode("crate"))
	n.SetPosition(mgl64.Vec3{4, 5, 6}, RelativeToParent)
	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	n.SetPosition(mgl64.Vec3{}, RelativeToParent)
	if err := s.Restore(data); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	assertVec(t, "restored", n.Position(RelativeToParent), mgl64.Vec3{4, 5, 6})

	if err := s.Restore([]byte("nope")); err == nil {
		t.Error("expected error for invalid snapshot")
	}
}
