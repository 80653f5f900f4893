// Package ducttape is a component-based scene graph for games built on
// [Ebitengine].
//
// A [Scene] is the root of a tree of [Node] values. Every node carries a
// transform (position, rotation and scale relative to its parent) and an
// ordered set of named [Component] values that give it behavior: physics
// bodies, trigger areas, raycasts, sounds, tweens and a first-person player
// controller ship with the package.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window sized from
// the display settings and drives the engine:
//
//	e := ducttape.NewEngine()
//	scene := ducttape.NewScene("level", ducttape.WithSceneManager(&ducttape.DebugSceneManager{}))
//	player := scene.AddChildNode(ducttape.NewNode("player"))
//	player.AddComponent(ducttape.NewPlayerComponent("controller"))
//	e.AddScene(scene)
//	ducttape.Run(e, ducttape.RunConfig{Title: "My Game"})
//
// For full control, the [Engine] is itself an [ebiten.Game]; pass it to
// [ebiten.RunGame] after calling [Engine.Initialize].
//
// # Lifecycle
//
// A component is initialized as soon as it is added to a node, and receives
// OnEnable/OnDisable as the activity of its node changes. A node is active
// when it and all its ancestors are enabled. Each frame the engine calls
// [Scene.HandleFrame], which updates the tree depth-first and drops killed
// nodes, steps the physics world and finally delivers queued events.
//
// # Coordinate spaces
//
// Transform getters and setters take a [RelativeTo]: [RelativeToParent] for
// local values and [RelativeToScene] for absolute ones. Scaling is applied
// component-wise and does not shear.
//
// # Events
//
// Components publish events such as [TriggeredEvent] and [RaycastHitEvent]
// into the scene's donburi world, see [Scene.Events]. Subscribers run once
// per frame after the physics step.
//
// # Persistence
//
// Nodes and components stream their state through a [Packet]. The same
// OnSerialize method reads and writes; reading never constructs nodes or
// components, it only updates the ones that already exist.
// [Scene.Snapshot] and [Scene.Restore] wrap this for whole scenes.
//
// # Debugging
//
// [SetDebugMode] turns operations on disposed nodes into panics and warns
// about deep trees. [Dump] prints a tree with its components.
//
// [Ebitengine]: https://ebitengine.org
package ducttape
