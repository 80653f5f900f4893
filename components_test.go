package ducttape

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/ducttape-dev/ducttape/audio"
	"github.com/ducttape-dev/ducttape/input"
	"github.com/ducttape-dev/ducttape/physics"
)

// newRunningScene registers a gravity-free scene with a fresh test engine and
// initializes both.
func newRunningScene(t *testing.T) (*Engine, *Scene) {
	t.Helper()
	e := newTestEngine(t)
	s := NewScene("level", WithPhysicsWorld(physics.NewWorld(physics.WithGravity(mgl64.Vec3{}))))
	e.AddScene(s)
	e.Initialize()
	t.Cleanup(e.Deinitialize)
	return e, s
}

func nodeAt(parent *Node, name string, pos mgl64.Vec3) *Node {
	n := parent.AddChildNode(NewNode(name))
	n.SetPosition(pos, RelativeToParent)
	return n
}

// --- SoundComponent ---

func TestSoundComponentPlayback(t *testing.T) {
	e, s := newRunningScene(t)
	if _, err := e.Audio().LoadTone("beep", 440, time.Second); err != nil {
		t.Fatalf("LoadTone: %v", err)
	}
	var kinds []SoundEventKind
	SoundEventType.Subscribe(s.Events(), func(w donburi.World, ev SoundEvent) {
		kinds = append(kinds, ev.Kind)
	})

	snd := AddComponent(nodeAt(s.Node, "speaker", mgl64.Vec3{}), NewSoundComponent("snd", "beep"))
	if snd.Sound() == nil {
		t.Fatal("sound not acquired on initialize")
	}
	snd.Play()
	if snd.Status() != audio.Playing {
		t.Errorf("Status = %v, want playing", snd.Status())
	}
	snd.Pause()
	if snd.Status() != audio.Paused {
		t.Errorf("Status = %v, want paused", snd.Status())
	}
	snd.Stop()
	if snd.Status() != audio.Stopped {
		t.Errorf("Status = %v, want stopped", snd.Status())
	}

	s.HandleFrame(0)
	want := []SoundEventKind{SoundPlayed, SoundPaused, SoundStopped}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestSoundComponentVolumeClipped(t *testing.T) {
	e, s := newRunningScene(t)
	e.Audio().LoadTone("beep", 440, time.Second)
	snd := AddComponent(s.Node, NewSoundComponent("snd", "beep"))

	snd.SetVolume(150)
	assertNear(t, "volume", snd.Volume(), 100)
	snd.SetVolume(-3)
	assertNear(t, "volume", snd.Volume(), 0)
	assertNear(t, "sound volume", snd.Sound().Volume(), 0)
}

func TestSoundComponentMasterVolume(t *testing.T) {
	e, s := newRunningScene(t)
	e.Audio().LoadTone("beep", 440, time.Second)
	snd := AddComponent(s.Node, NewSoundComponent("snd", "beep"))

	snd.SetMasterVolume(30)
	assertNear(t, "manager master", e.Audio().MasterVolume(), 30)
	assertNear(t, "settings master", e.AudioSettings().MasterVolume(), 30)
}

func TestSoundComponentStopsOnDisableAndReleases(t *testing.T) {
	e, s := newRunningScene(t)
	e.Audio().LoadTone("beep", 440, time.Second)
	n := nodeAt(s.Node, "speaker", mgl64.Vec3{})
	snd := AddComponent(n, NewSoundComponent("snd", "beep"))
	snd.Play()

	n.Disable()
	if snd.Status() != audio.Stopped {
		t.Error("disabling the node should stop the sound")
	}
	n.Enable()
	snd.Play()

	s.RemoveChildNode("speaker")
	if e.Audio().NumSounds() != 0 {
		t.Errorf("NumSounds = %d, want 0 after removal", e.Audio().NumSounds())
	}
}

func TestSoundComponentMissingFile(t *testing.T) {
	_, s := newRunningScene(t)
	snd := AddComponent(s.Node, NewSoundComponent("snd", "does-not-exist.wav"))
	snd.Play()
	if snd.Sound() != nil || snd.Status() != audio.Stopped {
		t.Error("missing file should leave the component without a sound")
	}
}

// --- PhysicsBodyComponent ---

func TestPhysicsBodyDynamicDrivesNode(t *testing.T) {
	_, s := newRunningScene(t)
	s.PhysicsWorld().SetGravity(mgl64.Vec3{0, -10, 0})
	n := nodeAt(s.Node, "ball", mgl64.Vec3{0, 10, 0})
	body := AddComponent(n, NewPhysicsBodyComponent("body", physics.Sphere(0.5), physics.Dynamic))
	if !body.InWorld() {
		t.Fatal("body not in world")
	}
	assertVec(t, "object start", body.Object().Position, mgl64.Vec3{0, 10, 0})

	s.HandleFrame(0.1)
	s.HandleFrame(0.1)
	if y := n.Position(RelativeToScene).Y(); y >= 10 {
		t.Errorf("node y = %v, should fall", y)
	}
}

func TestPhysicsBodyStaticFollowsNode(t *testing.T) {
	_, s := newRunningScene(t)
	n := nodeAt(s.Node, "wall", mgl64.Vec3{})
	body := AddComponent(n, NewPhysicsBodyComponent("body", physics.Box(mgl64.Vec3{1, 1, 1}), physics.Static))

	n.SetPosition(mgl64.Vec3{3, 0, 0}, RelativeToParent)
	s.HandleFrame(0.1)
	assertVec(t, "object", body.Object().Position, mgl64.Vec3{3, 0, 0})
}

func TestPhysicsBodyEnableDisable(t *testing.T) {
	_, s := newRunningScene(t)
	n := nodeAt(s.Node, "crate", mgl64.Vec3{})
	body := AddComponent(n, NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Static))

	body.Disable()
	if body.InWorld() || s.PhysicsWorld().Len() != 0 {
		t.Error("disabled body still in world")
	}
	body.Enable()
	if !body.InWorld() {
		t.Error("enabled body not back in world")
	}

	n.RemoveComponent("body")
	if s.PhysicsWorld().Len() != 0 || body.Object() != nil {
		t.Error("body not released on removal")
	}
}

func TestPhysicsBodyImpulse(t *testing.T) {
	_, s := newRunningScene(t)
	body := AddComponent(s.Node, NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Dynamic))
	body.SetMass(2)
	body.ApplyImpulse(mgl64.Vec3{4, 0, 0})
	assertVec(t, "velocity", body.Velocity(), mgl64.Vec3{2, 0, 0})
}

func TestPhysicsBodyJoinsSceneLater(t *testing.T) {
	_, s := newRunningScene(t)
	n := NewNode("detached")
	body := AddComponent(n, NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Static))
	if body.InWorld() {
		t.Fatal("detached body in a world")
	}
	s.AddChildNode(n)
	s.HandleFrame(0.1)
	if !body.InWorld() {
		t.Error("body did not join the scene world")
	}
}

// --- TriggerAreaComponent ---

func TestTriggerAreaReportsOverlaps(t *testing.T) {
	_, s := newRunningScene(t)
	area := nodeAt(s.Node, "area", mgl64.Vec3{})
	trig := AddComponent(area, NewTriggerAreaComponent("trigger", physics.Sphere(1)))
	AddComponent(area, NewPhysicsBodyComponent("own", physics.Sphere(0.2), physics.Static))
	inside := AddComponent(nodeAt(s.Node, "inside", mgl64.Vec3{0.5, 0, 0}), NewPhysicsBodyComponent("body", physics.Sphere(0.5), physics.Static))
	nodeAt(s.Node, "outside", mgl64.Vec3{5, 0, 0}).AddComponent(NewPhysicsBodyComponent("body", physics.Sphere(0.5), physics.Static))

	var got []TriggeredEvent
	TriggeredEventType.Subscribe(s.Events(), func(w donburi.World, ev TriggeredEvent) {
		got = append(got, ev)
	})
	s.HandleFrame(0.1)

	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	if got[0].Trigger != trig || got[0].Other != Component(inside) || got[0].Object != inside.Object() {
		t.Errorf("event = %+v", got[0])
	}
}

func TestTriggerAreaDisableDropsGhost(t *testing.T) {
	_, s := newRunningScene(t)
	trig := AddComponent(s.Node, NewTriggerAreaComponent("trigger", physics.Sphere(1)))
	first := trig.Ghost()
	if first == nil || !s.PhysicsWorld().Contains(first) {
		t.Fatal("ghost not created")
	}

	trig.Disable()
	if trig.Ghost() != nil || s.PhysicsWorld().Contains(first) {
		t.Error("disable should remove and drop the ghost")
	}
	trig.Enable()
	if trig.Ghost() == nil || trig.Ghost() == first {
		t.Error("enable should create a fresh ghost")
	}
	if s.PhysicsWorld().Len() != 1 {
		t.Errorf("world objects = %d, want 1", s.PhysicsWorld().Len())
	}
}

func TestTriggerAreaSetShape(t *testing.T) {
	_, s := newRunningScene(t)
	trig := AddComponent(s.Node, NewTriggerAreaComponent("trigger", physics.Sphere(1)))
	trig.SetAreaShape(physics.Box(mgl64.Vec3{2, 2, 2}))
	if trig.Ghost().Shape.Kind != physics.ShapeBox {
		t.Error("ghost not rebuilt with the new shape")
	}
	s.RemoveComponent("trigger")
	if s.PhysicsWorld().Len() != 0 {
		t.Error("ghost not released")
	}
}

// --- RaycastComponent ---

func TestRaycastClosestHit(t *testing.T) {
	_, s := newRunningScene(t)
	eye := nodeAt(s.Node, "eye", mgl64.Vec3{})
	AddComponent(eye, NewPhysicsBodyComponent("self", physics.Sphere(0.5), physics.Static))
	ray := AddComponent(eye, NewRaycastComponent("ray"))
	near := AddComponent(nodeAt(s.Node, "near", mgl64.Vec3{0, 0, 5}), NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Static))
	nodeAt(s.Node, "far", mgl64.Vec3{0, 0, 8}).AddComponent(NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Static))

	var hits []RaycastHitEvent
	RaycastHitEventType.Subscribe(s.Events(), func(w donburi.World, ev RaycastHitEvent) {
		hits = append(hits, ev)
	})

	hit, ok := ray.Check()
	if !ok || hit.Object != near.Object() {
		t.Fatalf("Check = %+v, %v", hit, ok)
	}
	s.HandleFrame(0)
	if len(hits) != 1 || hits[0].Body != near {
		t.Fatalf("hit events = %+v", hits)
	}
	assertNear(t, "distance", hits[0].Distance, 4)
	assertVec(t, "point", hits[0].Point, mgl64.Vec3{0, 0, 4})
}

func TestRaycastFollowsNodeRotation(t *testing.T) {
	_, s := newRunningScene(t)
	eye := nodeAt(s.Node, "eye", mgl64.Vec3{})
	ray := AddComponent(eye, NewRaycastComponent("ray"))
	nodeAt(s.Node, "side", mgl64.Vec3{5, 0, 0}).AddComponent(NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Static))

	if _, ok := ray.Check(); ok {
		t.Error("hit before turning")
	}
	eye.SetDirection(UnitX, UnitZ, RelativeToParent)
	if _, ok := ray.Check(); !ok {
		t.Error("no hit after turning towards the target")
	}
}

func TestRaycastCooldown(t *testing.T) {
	_, s := newRunningScene(t)
	ray := NewRaycastComponent("ray")
	ray.Cooldown = 1
	AddComponent(s.Node, ray)
	nodeAt(s.Node, "target", mgl64.Vec3{0, 0, 3}).AddComponent(NewPhysicsBodyComponent("body", physics.Sphere(1), physics.Static))

	if _, ok := ray.Check(); !ok {
		t.Fatal("first check should run")
	}
	if _, ok := ray.Check(); ok {
		t.Error("check during cooldown should not run")
	}
	s.HandleFrame(1)
	if !ray.Ready() {
		t.Error("cooldown did not elapse")
	}
	ray.Range = 1
	if _, ok := ray.Check(); ok {
		t.Error("target outside range hit")
	}
}

// --- PlayerComponent ---

func TestPlayerMovesWithBoundKeys(t *testing.T) {
	e, s := newRunningScene(t)
	n := nodeAt(s.Node, "player", mgl64.Vec3{})
	p := AddComponent(n, NewPlayerComponent("player"))

	var kinds []PlayerEventKind
	PlayerEventType.Subscribe(s.Events(), func(w donburi.World, ev PlayerEvent) {
		kinds = append(kinds, ev.Kind)
	})

	src := scripted(e)
	src.Hold(input.KeyCode(ebiten.KeyW), true)
	e.Update()
	assertVec(t, "after forward", n.Position(RelativeToParent), mgl64.Vec3{0, 0, 5.0 / 60})
	if !p.IsMoving() {
		t.Error("IsMoving false while moving")
	}

	src.Hold(input.KeyCode(ebiten.KeyW), false)
	src.Hold(input.KeyCode(ebiten.KeyA), true)
	e.Update()
	assertVec(t, "after left", n.Position(RelativeToParent), mgl64.Vec3{5.0 / 60, 0, 5.0 / 60})

	src.Hold(input.KeyCode(ebiten.KeyA), false)
	e.Update()
	if p.IsMoving() {
		t.Error("IsMoving true after release")
	}
	if len(kinds) != 3 || kinds[0] != PlayerMoved || kinds[2] != PlayerStopped {
		t.Errorf("player events = %v", kinds)
	}
}

func TestPlayerRebindFunction(t *testing.T) {
	e, s := newRunningScene(t)
	n := nodeAt(s.Node, "player", mgl64.Vec3{})
	AddComponent(n, NewPlayerComponent("player"))
	e.InputSettings().SetKey(FunctionForward, input.KeyCode(ebiten.KeyUp))

	src := scripted(e)
	src.Hold(input.KeyCode(ebiten.KeyW), true)
	e.Update()
	assertVec(t, "old key ignored", n.Position(RelativeToParent), mgl64.Vec3{})

	src.Hold(input.KeyCode(ebiten.KeyUp), true)
	e.Update()
	if n.Position(RelativeToParent).Z() <= 0 {
		t.Error("rebound key did not move the player")
	}
}

func TestPlayerJumpLands(t *testing.T) {
	e, s := newRunningScene(t)
	n := nodeAt(s.Node, "player", mgl64.Vec3{0, 1, 0})
	p := AddComponent(n, NewPlayerComponent("player"))

	scripted(e).Tap(input.KeyCode(ebiten.KeySpace))
	e.Update()
	if !p.IsAirborne() || n.Position(RelativeToParent).Y() <= 1 {
		t.Fatal("jump did not start")
	}
	for i := 0; i < 120 && p.IsAirborne(); i++ {
		e.Update()
	}
	if p.IsAirborne() {
		t.Fatal("player never landed")
	}
	assertNear(t, "landed y", n.Position(RelativeToParent).Y(), 1)
}

func TestPlayerMouseLook(t *testing.T) {
	e, s := newRunningScene(t)
	n := nodeAt(s.Node, "player", mgl64.Vec3{})
	AddComponent(n, NewPlayerComponent("player"))
	e.Update()

	scripted(e).MoveCursor(100, 0)
	e.Update()
	dir := n.Direction(UnitZ, RelativeToParent)
	want := -math.Sin(100 * mouseLookScale)
	assertNear(t, "turned x", dir.X(), want)
}

func TestPlayerMouseLookInvertedSensitivity(t *testing.T) {
	e, s := newRunningScene(t)
	e.InputSettings().SetMouseSensitivity(0.5)
	e.InputSettings().SetMouseYInverted(true)
	n := nodeAt(s.Node, "player", mgl64.Vec3{})
	AddComponent(n, NewPlayerComponent("player"))
	e.Update()

	scripted(e).MoveCursor(0, 100)
	e.Update()
	dir := n.Direction(UnitZ, RelativeToParent)
	// Pitch about X turns +Z towards -Y for positive angles.
	assertNear(t, "turned y", dir.Y(), math.Sin(50*mouseLookScale))
}

func TestPlayerMouseButtonsTriggerOnce(t *testing.T) {
	e, s := newRunningScene(t)
	p := AddComponent(nodeAt(s.Node, "player", mgl64.Vec3{}), NewPlayerComponent("player"))
	var pressed []input.Code
	p.OnMouseTriggered = func(_ *PlayerComponent, b input.Code) { pressed = append(pressed, b) }

	src := scripted(e)
	src.Press(input.MouseLeft)
	for i := 0; i < 3; i++ {
		e.Update()
	}
	if len(pressed) != 1 || pressed[0] != input.MouseLeft {
		t.Errorf("triggered = %v", pressed)
	}
}

func TestPlayerScriptedInput(t *testing.T) {
	e, s := newRunningScene(t)
	n := nodeAt(s.Node, "player", mgl64.Vec3{})
	AddComponent(n, NewPlayerComponent("player"))

	script, err := input.LoadScript([]byte(`{"steps":[{"action":"press","key":"D"},{"action":"wait","frames":3},{"action":"release","key":"D"}]}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	scripted(e).SetScript(script)
	for i := 0; i < 10; i++ {
		e.Update()
	}
	if !script.Done() {
		t.Error("script not finished")
	}
	if x := n.Position(RelativeToParent).X(); x >= 0 {
		t.Errorf("x = %v, pressing Right should move towards -X", x)
	}
}

// --- TweenComponent ---

func TestTweenPosition(t *testing.T) {
	n := NewNode("n")
	tw := AddComponent(n, TweenPosition("move", mgl64.Vec3{10, 0, 0}, 1, ease.Linear))

	n.Update(0.5)
	assertVec(t, "halfway", n.Position(RelativeToParent), mgl64.Vec3{5, 0, 0})
	n.Update(0.6)
	assertVec(t, "end", n.Position(RelativeToParent), mgl64.Vec3{10, 0, 0})
	if !tw.Done() || tw.IsEnabled() {
		t.Error("finished tween should be done and disabled")
	}
}

func TestTweenKeepsFullPrecision(t *testing.T) {
	n := NewNode("n")
	start := mgl64.Vec3{0.1, 1234567.891, -3.3}
	n.SetPosition(start, RelativeToParent)

	AddComponent(n, TweenPosition("move", mgl64.Vec3{5, 1234567.891, -3.3}, 1, ease.Linear))
	if got := n.Position(RelativeToParent); got != start {
		t.Fatalf("attaching moved the node: %v, want %v", got, start)
	}

	n.Update(0.25)
	got := n.Position(RelativeToParent)
	if got[1] != start[1] || got[2] != start[2] {
		t.Errorf("unchanged axes drifted: %v", got)
	}
	assertNear(t, "x", got[0], 0.1+4.9*0.25)
}

func TestTweenScaleAutoRemove(t *testing.T) {
	n := NewNode("n")
	tw := TweenScale("grow", mgl64.Vec3{2, 2, 2}, 0.5, nil)
	tw.AutoRemove = true
	n.AddComponent(tw)
	n.Update(1)
	assertVec(t, "scale", n.Scale(RelativeToParent), mgl64.Vec3{2, 2, 2})
	if n.HasComponent("grow") {
		t.Error("auto-remove tween still attached")
	}
	if tw.State() != StateDeinitialized {
		t.Error("removed tween not deinitialized")
	}
}

func TestTweenRotation(t *testing.T) {
	n := NewNode("n")
	AddComponent(n, TweenRotation("turn", yaw(90), 1, ease.Linear))
	n.Update(0.5)
	assertQuat(t, "halfway", n.Rotation(RelativeToParent), yaw(45))
	n.Update(0.5)
	assertQuat(t, "end", n.Rotation(RelativeToParent), yaw(90))
}

func TestTweenPausedByDisabledNode(t *testing.T) {
	n := NewNode("n")
	AddComponent(n, TweenPosition("move", mgl64.Vec3{10, 0, 0}, 1, ease.Linear))
	n.Disable()
	n.Update(0.5)
	n.Enable()
	assertVec(t, "paused", n.Position(RelativeToParent), mgl64.Vec3{})
}
