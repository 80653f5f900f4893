package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/ducttape-dev/ducttape"
	"github.com/ducttape-dev/ducttape/audio"
	"github.com/ducttape-dev/ducttape/input"
	"github.com/ducttape-dev/ducttape/physics"
	"github.com/ducttape-dev/ducttape/storage"
)

const demoSceneName = "demo"

// Buffers generated at startup so the demo needs no asset files.
const (
	chimeBuffer = "chime"
	thudBuffer  = "thud"
)

var (
	keyQuit = input.KeyCode(ebiten.KeyEscape)
	keySave = input.KeyCode(ebiten.KeyF5)
	keyLoad = input.KeyCode(ebiten.KeyF9)
)

// pushImpulse is applied to crates hit by the player's raycast.
const pushImpulse = 6.0

// loadDemoSounds generates the tones used by the demo scene.
func loadDemoSounds(m *audio.Manager) error {
	if _, err := m.LoadTone(chimeBuffer, 880, 150*time.Millisecond); err != nil {
		return fmt.Errorf("chime: %w", err)
	}
	if _, err := m.LoadTone(thudBuffer, 110, 80*time.Millisecond); err != nil {
		return fmt.Errorf("thud: %w", err)
	}
	return nil
}

// buildDemoScene creates a floor, a row of crates, a goal trigger and a
// player with a raycast. Clicking pushes the crate in front of the player and
// walking into the goal plays a chime.
func buildDemoScene() *ducttape.Scene {
	scene := ducttape.NewScene(demoSceneName, ducttape.WithSceneManager(&ducttape.DebugSceneManager{PixelsPerUnit: 24}))

	floor := scene.AddChildNode(ducttape.NewNode("floor"))
	floor.SetPosition(mgl64.Vec3{0, -1, 0}, ducttape.RelativeToParent)
	floor.AddComponent(ducttape.NewPhysicsBodyComponent("body", physics.Box(mgl64.Vec3{20, 0.5, 20}), physics.Static))

	crates := scene.AddChildNode(ducttape.NewNode("crates"))
	for i := 0; i < 4; i++ {
		crate := crates.AddChildNode(ducttape.NewNode(fmt.Sprintf("crate%d", i)))
		crate.SetPosition(mgl64.Vec3{float64(i*3 - 4), 2 + float64(i), 6}, ducttape.RelativeToParent)
		crate.AddComponent(ducttape.NewPhysicsBodyComponent("body", physics.Box(mgl64.Vec3{0.5, 0.5, 0.5}), physics.Dynamic))
		crate.AddComponent(ducttape.NewSoundComponent("thud", thudBuffer))
	}

	goal := scene.AddChildNode(ducttape.NewNode("goal"))
	goal.SetPosition(mgl64.Vec3{0, 0, 12}, ducttape.RelativeToParent)
	goal.AddComponent(ducttape.NewTriggerAreaComponent("area", physics.Sphere(1.5)))
	goal.AddComponent(ducttape.NewSoundComponent("chime", chimeBuffer))
	spin := ducttape.TweenRotation("spin", mgl64.QuatRotate(mgl64.DegToRad(180), ducttape.UnitY), 2, ease.InOutQuad)
	goal.AddComponent(spin)

	player := scene.AddChildNode(ducttape.NewNode("player"))
	player.AddComponent(ducttape.NewPhysicsBodyComponent("body", physics.Box(mgl64.Vec3{0.4, 0.9, 0.4}), physics.Kinematic))
	ray := ducttape.NewRaycastComponent("aim")
	ray.Range = 15
	ray.Cooldown = 0.2
	player.AddComponent(ray)
	controller := ducttape.NewPlayerComponent("controller")
	controller.OnMouseTriggered = func(_ *ducttape.PlayerComponent, button input.Code) {
		if button == input.MouseCode(ebiten.MouseButtonLeft) {
			ray.Check()
		}
	}
	player.AddComponent(controller)

	subscribeDemoEvents(scene)
	return scene
}

func subscribeDemoEvents(scene *ducttape.Scene) {
	w := scene.Events()
	ducttape.TriggeredEventType.Subscribe(w, func(_ donburi.World, e ducttape.TriggeredEvent) {
		chime, ok := e.Trigger.Node().Component("chime").(*ducttape.SoundComponent)
		if ok && chime.Status() != audio.Playing {
			chime.Play()
		}
	})
	ducttape.RaycastHitEventType.Subscribe(w, func(_ donburi.World, e ducttape.RaycastHitEvent) {
		if e.Body == nil || e.Body.Object().Type != physics.Dynamic {
			return
		}
		dir := e.Raycast.Node().Direction(e.Raycast.Front, ducttape.RelativeToScene)
		e.Body.ApplyImpulse(dir.Mul(pushImpulse).Add(mgl64.Vec3{0, 2, 0}))
		if thud, ok := e.Body.Node().Component("thud").(*ducttape.SoundComponent); ok {
			thud.Play()
		}
	})
	ducttape.PlayerEventType.Subscribe(w, func(_ donburi.World, e ducttape.PlayerEvent) {
		if e.Kind == ducttape.PlayerJumped {
			ducttape.Logger().Debug("jump", "player", e.Player.Node().FullName())
		}
	})
}

// demoControls handles the quit, quicksave and quickload keys.
type demoControls struct {
	engine *ducttape.Engine
	scene  *ducttape.Scene
	store  *storage.Store
}

func (c *demoControls) HandleFrame(float64) {
	in := c.engine.Input()
	switch {
	case in.JustPressed(keyQuit):
		c.engine.Quit()
	case in.JustPressed(keySave):
		c.save()
	case in.JustPressed(keyLoad):
		c.load()
	}
}

func (c *demoControls) save() {
	data, err := c.scene.Snapshot()
	if err != nil {
		ducttape.Logger().Error("snapshot failed", "err", err)
		return
	}
	id, err := c.store.Save(c.scene.Name(), "quicksave", data)
	if err != nil {
		ducttape.Logger().Error("save failed", "err", err)
		return
	}
	ducttape.Logger().Info("scene saved", "id", id)
}

func (c *demoControls) load() {
	snap, err := c.store.Latest(c.scene.Name())
	if errors.Is(err, storage.ErrNotFound) {
		ducttape.Logger().Warn("no saved scene", "scene", c.scene.Name())
		return
	}
	if err != nil {
		ducttape.Logger().Error("load failed", "err", err)
		return
	}
	if err := c.scene.Restore(snap.Data); err != nil {
		ducttape.Logger().Error("restore failed", "id", snap.ID, "err", err)
		return
	}
	ducttape.Logger().Info("scene restored", "id", snap.ID, "saved", snap.CreatedAt.Format(time.DateTime))
}
