package ducttape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ducttape-dev/ducttape/input"
)

// Input function names read by PlayerComponent from the engine's input settings.
const (
	FunctionForward  = "Forward"
	FunctionBackward = "Backward"
	FunctionLeft     = "Left"
	FunctionRight    = "Right"
	FunctionJump     = "Jump"
)

// mouseLookScale converts cursor pixels at sensitivity 1 into radians.
const mouseLookScale = 0.0025

const maxPitch = math.Pi/2 - 0.01

// PlayerComponent is a kinematic first-person controller. Each frame it moves
// its node in the horizontal plane with the keys bound to the Forward,
// Backward, Left and Right functions, jumps with Jump, and turns the node with
// the mouse using the sensitivity and Y inversion of the input settings.
//
// The node's front axis is UnitZ. Jumps are ballistic and land back at the
// height the jump started from.
type PlayerComponent struct {
	BaseComponent

	// MoveSpeed is the horizontal speed in units per second.
	MoveSpeed float64
	// JumpSpeed is the initial upward speed of a jump.
	JumpSpeed float64
	// Gravity pulls the player down while airborne.
	Gravity float64

	KeyboardEnabled bool
	MouseEnabled    bool

	// OnMouseTriggered runs once for each press of a mouse button.
	OnMouseTriggered func(c *PlayerComponent, button input.Code)

	baseRotation mgl64.Quat
	yaw, pitch   float64
	moving       bool
	airborne     bool
	verticalVel  float64
	groundHeight float64
}

// NewPlayerComponent creates a controller with move speed 5 and keyboard and
// mouse enabled.
func NewPlayerComponent(name string) *PlayerComponent {
	return &PlayerComponent{
		BaseComponent:   NewBaseComponent(name),
		MoveSpeed:       5,
		JumpSpeed:       5,
		Gravity:         9.81,
		KeyboardEnabled: true,
		MouseEnabled:    true,
	}
}

// IsMoving reports whether the player moved horizontally last frame.
func (c *PlayerComponent) IsMoving() bool { return c.moving }

// IsAirborne reports whether a jump is in progress.
func (c *PlayerComponent) IsAirborne() bool { return c.airborne }

func (c *PlayerComponent) OnInitialize() {
	c.baseRotation = c.Node().Rotation(RelativeToParent)
}

func (c *PlayerComponent) OnDisable() {
	if c.moving {
		c.moving = false
		c.publish(PlayerStopped)
	}
}

func (c *PlayerComponent) OnSerialize(p *Packet) {
	p.Stream("moveSpeed", &c.MoveSpeed)
	p.Stream("jumpSpeed", &c.JumpSpeed)
	p.Stream("yaw", &c.yaw)
	p.Stream("pitch", &c.pitch)
}

func (c *PlayerComponent) OnUpdate(dt float64) {
	e := c.Node().Engine()
	if e == nil || dt <= 0 {
		return
	}
	in := e.Input()
	if c.MouseEnabled {
		c.look(in)
		c.mouseButtons(in)
	}
	if c.KeyboardEnabled {
		c.move(in, dt)
		if !c.airborne && in.JustPressed(e.InputSettings().KeyFor(FunctionJump)) {
			c.airborne = true
			c.verticalVel = c.JumpSpeed
			c.groundHeight = c.Node().Position(RelativeToParent).Y()
			c.publish(PlayerJumped)
		}
	}
	c.fall(dt)
}

func (c *PlayerComponent) look(in *input.Manager) {
	dx, dy := in.CursorDelta()
	if dx == 0 && dy == 0 {
		return
	}
	cfg := c.Node().Engine().InputSettings()
	if cfg.MouseYInverted() {
		dy = -dy
	}
	scale := cfg.MouseSensitivity() * mouseLookScale
	c.yaw -= dx * scale
	c.pitch = mgl64.Clamp(c.pitch+dy*scale, -maxPitch, maxPitch)
	q := mgl64.QuatRotate(c.yaw, UnitY).Mul(mgl64.QuatRotate(c.pitch, UnitX))
	c.Node().SetRotation(c.baseRotation.Mul(q), RelativeToParent)
}

func (c *PlayerComponent) mouseButtons(in *input.Manager) {
	if c.OnMouseTriggered == nil {
		return
	}
	for _, b := range []input.Code{input.MouseLeft, input.MouseRight, input.MouseMiddle} {
		if in.JustPressed(b) {
			c.OnMouseTriggered(c, b)
		}
	}
}

func (c *PlayerComponent) move(in *input.Manager, dt float64) {
	n := c.Node()
	keys := n.Engine().InputSettings()

	forward := n.Direction(UnitZ, RelativeToParent)
	forward[1] = 0
	if forward.Len() < 1e-9 {
		forward = UnitZ
	}
	forward = forward.Normalize()
	left := UnitY.Cross(forward)

	var dir mgl64.Vec3
	if in.IsPressed(keys.KeyFor(FunctionForward)) {
		dir = dir.Add(forward)
	}
	if in.IsPressed(keys.KeyFor(FunctionBackward)) {
		dir = dir.Sub(forward)
	}
	if in.IsPressed(keys.KeyFor(FunctionLeft)) {
		dir = dir.Add(left)
	}
	if in.IsPressed(keys.KeyFor(FunctionRight)) {
		dir = dir.Sub(left)
	}

	if dir.Len() < 1e-9 {
		if c.moving {
			c.moving = false
			c.publish(PlayerStopped)
		}
		return
	}
	n.Translate(dir.Normalize().Mul(c.MoveSpeed*dt), RelativeToParent)
	c.moving = true
	c.publish(PlayerMoved)
}

func (c *PlayerComponent) fall(dt float64) {
	if !c.airborne {
		return
	}
	n := c.Node()
	pos := n.Position(RelativeToParent)
	c.verticalVel -= c.Gravity * dt
	pos[1] += c.verticalVel * dt
	if pos[1] <= c.groundHeight {
		pos[1] = c.groundHeight
		c.airborne = false
		c.verticalVel = 0
	}
	n.SetPosition(pos, RelativeToParent)
}

func (c *PlayerComponent) publish(kind PlayerEventKind) {
	n := c.Node()
	publish(n, PlayerEventType, PlayerEvent{Player: c, Kind: kind, Position: n.Position(RelativeToScene)})
}
