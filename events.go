package ducttape

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/ducttape-dev/ducttape/physics"
)

// Scene events are queued in the scene's donburi world and delivered by
// Scene.HandleFrame after the tree update and physics step. Subscribe with
// the event type and the scene's world:
//
//	ducttape.TriggeredEventType.Subscribe(scene.Events(), func(w donburi.World, e ducttape.TriggeredEvent) {
//		...
//	})
//
// Within one type, events arrive in publish order. Types are processed in the
// order they are listed in processEvents.
var (
	TriggeredEventType  = events.NewEventType[TriggeredEvent]()
	RaycastHitEventType = events.NewEventType[RaycastHitEvent]()
	SoundEventType      = events.NewEventType[SoundEvent]()
	PlayerEventType     = events.NewEventType[PlayerEvent]()
	NodeKilledEventType = events.NewEventType[NodeKilledEvent]()
)

// TriggeredEvent reports an object inside a trigger area, once per frame for
// as long as it overlaps.
type TriggeredEvent struct {
	Trigger *TriggerAreaComponent
	// Other is the component owning the overlapping object, or nil.
	Other  Component
	Object *physics.Object
}

// RaycastHitEvent reports the closest object hit by RaycastComponent.Check.
type RaycastHitEvent struct {
	Raycast *RaycastComponent
	// Body is the physics body component that was hit, or nil for objects
	// not owned by one.
	Body     *PhysicsBodyComponent
	Object   *physics.Object
	Point    mgl64.Vec3
	Distance float64
}

// SoundEventKind says what happened to a sound.
type SoundEventKind uint8

const (
	SoundPlayed SoundEventKind = iota
	SoundPaused
	SoundStopped
	SoundVolumeChanged
	SoundMasterVolumeChanged
)

// SoundEvent reports playback and volume changes of a SoundComponent.
type SoundEvent struct {
	Sound  *SoundComponent
	Kind   SoundEventKind
	Volume float64 // new volume for the volume kinds
}

// PlayerEventKind says what a player did.
type PlayerEventKind uint8

const (
	PlayerMoved PlayerEventKind = iota
	PlayerStopped
	PlayerJumped
)

// PlayerEvent reports movement state changes of a PlayerComponent.
type PlayerEvent struct {
	Player   *PlayerComponent
	Kind     PlayerEventKind
	Position mgl64.Vec3 // scene position
}

// NodeKilledEvent reports a killed node that was removed from the tree.
// The node itself is already disposed.
type NodeKilledEvent struct {
	ID       uuid.UUID
	Name     string
	FullName string
}

// publish queues e on the scene of n. Nodes outside a scene drop events.
func publish[T any](n *Node, et *events.EventType[T], e T) {
	if n == nil {
		return
	}
	s := n.Scene()
	if s == nil {
		return
	}
	et.Publish(s.world, e)
}

func processEvents(w donburi.World) {
	TriggeredEventType.ProcessEvents(w)
	RaycastHitEventType.ProcessEvents(w)
	SoundEventType.ProcessEvents(w)
	PlayerEventType.ProcessEvents(w)
	NodeKilledEventType.ProcessEvents(w)
}
