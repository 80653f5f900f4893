package ducttape

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tweenTarget uint8

const (
	tweenPosition tweenTarget = iota
	tweenScale
	tweenRotation
)

// TweenComponent animates the local position, scale or rotation of its node
// towards a target. The start value is taken from the node when the component
// is initialized. When the tween finishes the component disables itself, or
// removes itself if AutoRemove is set.
//
// Only an active component advances, so disabling the node pauses the tween.
type TweenComponent struct {
	BaseComponent

	target   tweenTarget
	to       mgl64.Vec3
	toRot    mgl64.Quat
	from     mgl64.Vec3
	fromRot  mgl64.Quat
	duration float32
	fn       ease.TweenFunc

	// progress eases from 0 to 1; values are interpolated in float64.
	progress *gween.Tween
	done     bool

	// AutoRemove removes the component from its node once finished.
	AutoRemove bool
}

// TweenPosition moves the node to the given local position over duration
// seconds.
func TweenPosition(name string, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenComponent {
	return &TweenComponent{BaseComponent: NewBaseComponent(name), target: tweenPosition, to: to, duration: duration, fn: fn}
}

// TweenScale scales the node to the given local scale over duration seconds.
func TweenScale(name string, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenComponent {
	return &TweenComponent{BaseComponent: NewBaseComponent(name), target: tweenScale, to: to, duration: duration, fn: fn}
}

// TweenRotation turns the node to the given local rotation over duration
// seconds along the shortest arc.
func TweenRotation(name string, to mgl64.Quat, duration float32, fn ease.TweenFunc) *TweenComponent {
	return &TweenComponent{BaseComponent: NewBaseComponent(name), target: tweenRotation, toRot: to.Normalize(), duration: duration, fn: fn}
}

// Done reports whether the tween reached its target.
func (t *TweenComponent) Done() bool { return t.done }

func (t *TweenComponent) OnInitialize() {
	if t.fn == nil {
		t.fn = ease.Linear
	}
	n := t.Node()
	switch t.target {
	case tweenPosition:
		t.from = n.Position(RelativeToParent)
	case tweenScale:
		t.from = n.Scale(RelativeToParent)
	case tweenRotation:
		t.fromRot = n.Rotation(RelativeToParent)
	}
	t.progress = gween.New(0, 1, t.duration, t.fn)
}

func (t *TweenComponent) OnUpdate(dt float64) {
	if t.done {
		return
	}
	n := t.Node()
	p, finished := t.progress.Update(float32(dt))

	switch t.target {
	case tweenRotation:
		q := mgl64.QuatSlerp(t.fromRot, t.toRot, float64(p))
		if finished {
			q = t.toRot
		}
		n.SetRotation(q, RelativeToParent)
	default:
		v := t.from.Add(t.to.Sub(t.from).Mul(float64(p)))
		if finished {
			v = t.to
		}
		if t.target == tweenPosition {
			n.SetPosition(v, RelativeToParent)
		} else {
			n.SetScale(v, RelativeToParent)
		}
	}

	if !finished {
		return
	}
	t.done = true
	if t.AutoRemove {
		n.RemoveComponent(t.Name())
		return
	}
	t.Disable()
}

func (t *TweenComponent) OnSerialize(p *Packet) {
	p.Stream("done", &t.done)
}
