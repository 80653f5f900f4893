package ducttape

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"

	"github.com/ducttape-dev/ducttape/physics"
)

// SceneManager renders a scene. It is the per-scene rendering handle.
type SceneManager interface {
	Draw(screen *ebiten.Image, s *Scene)
}

// Scene is the root of one game world. It embeds its own Node, so the whole
// Node API applies, and owns the physics world and event queue that its
// components reach through Node.Scene.
type Scene struct {
	*Node

	world   donburi.World
	physics *physics.World
	manager SceneManager
	engine  *Engine
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithPhysicsWorld replaces the scene's default physics world.
func WithPhysicsWorld(w *physics.World) SceneOption {
	return func(s *Scene) { s.physics = w }
}

// WithSceneManager sets the rendering handle.
func WithSceneManager(m SceneManager) SceneOption {
	return func(s *Scene) { s.manager = m }
}

// NewScene creates a detached scene. Add it to an Engine to receive frames.
func NewScene(name string, opts ...SceneOption) *Scene {
	s := &Scene{
		Node:  NewNode(name),
		world: donburi.NewWorld(),
	}
	s.Node.scene = s
	s.Node.hooks = sceneHooks{s: s}
	for _, opt := range opts {
		opt(s)
	}
	if s.physics == nil {
		s.physics = physics.NewWorld(physics.WithLogger(logger.WithPrefix("physics")))
	}
	return s
}

// PhysicsWorld returns the collision world.
func (s *Scene) PhysicsWorld() *physics.World { return s.physics }

// Events returns the donburi world that queues this scene's events.
func (s *Scene) Events() donburi.World { return s.world }

// SceneManager returns the rendering handle, or nil.
func (s *Scene) SceneManager() SceneManager { return s.manager }

// SetSceneManager replaces the rendering handle.
func (s *Scene) SetSceneManager(m SceneManager) { s.manager = m }

// Engine returns the engine the scene was added to, or nil.
func (s *Scene) Engine() *Engine { return s.engine }

// HandleFrame advances the scene by dt seconds: the node tree, then the
// physics world, then queued events. Inactive scenes skip the frame.
func (s *Scene) HandleFrame(dt float64) {
	if s.disposed || !s.IsActive() {
		return
	}
	s.Node.Update(dt)
	s.physics.Step(dt)
	processEvents(s.world)
}

// Snapshot serializes the scene tree.
func (s *Scene) Snapshot() ([]byte, error) {
	p := NewPacket()
	s.Serialize(p)
	data, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.name, err)
	}
	return data, nil
}

// Restore applies a snapshot to the existing tree.
func (s *Scene) Restore(data []byte) error {
	p, err := ReadPacket(data)
	if err != nil {
		return fmt.Errorf("restore %s: %w", s.name, err)
	}
	s.Serialize(p)
	if err := p.Err(); err != nil {
		return fmt.Errorf("restore %s: %w", s.name, err)
	}
	return nil
}

// sceneHooks registers the scene for frames while it is live.
type sceneHooks struct {
	NopHooks
	s *Scene
}

func (h sceneHooks) OnInitialize(*Node) {
	if h.s.engine != nil {
		h.s.engine.AddFrameListener(h.s)
	}
}

func (h sceneHooks) OnDeinitialize(*Node) {
	if h.s.engine != nil {
		h.s.engine.RemoveFrameListener(h.s)
	}
}
