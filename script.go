package ducttape

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ScriptObject exposes the node to a scripting engine as plain values keyed by
// property name. Vectors become maps with "x", "y" and "z" keys, rotations add
// "w". Transform values are local to the parent.
func (n *Node) ScriptObject() map[string]any {
	children := make([]string, 0, len(n.childOrder))
	children = append(children, n.childOrder...)
	components := make([]string, 0, len(n.componentOrder))
	components = append(components, n.componentOrder...)

	return map[string]any{
		"id":         n.id.String(),
		"name":       n.name,
		"fullName":   n.FullName(),
		"enabled":    n.enabled,
		"active":     n.IsActive(),
		"position":   scriptVec(n.position),
		"scale":      scriptVec(n.scale),
		"rotation":   scriptQuat(n.rotation),
		"children":   children,
		"components": components,
	}
}

// SetScriptProperty writes one property coming from a script. Writable
// properties are position, scale, rotation and enabled. It reports whether
// the property was known and the value had the right shape.
func (n *Node) SetScriptProperty(name string, value any) bool {
	if checkDisposed(n, "SetScriptProperty") {
		return false
	}
	switch name {
	case "position", "scale":
		v, ok := vecFromScript(value)
		if !ok {
			break
		}
		if name == "position" {
			n.SetPosition(v, RelativeToParent)
		} else {
			n.SetScale(v, RelativeToParent)
		}
		return true
	case "rotation":
		m, ok := value.(map[string]any)
		if !ok {
			break
		}
		v, ok := vecFromScript(m)
		w, okW := scriptFloat(m["w"])
		if !ok || !okW {
			break
		}
		n.SetRotation(mgl64.Quat{W: w, V: v}, RelativeToParent)
		return true
	case "enabled":
		on, ok := value.(bool)
		if !ok {
			break
		}
		if on {
			n.Enable()
		} else {
			n.Disable()
		}
		return true
	}
	logger.Warn("script property rejected", "node", n.FullName(), "property", name)
	return false
}

func scriptVec(v mgl64.Vec3) map[string]any {
	return map[string]any{"x": v[0], "y": v[1], "z": v[2]}
}

func scriptQuat(q mgl64.Quat) map[string]any {
	return map[string]any{"w": q.W, "x": q.V[0], "y": q.V[1], "z": q.V[2]}
}

func vecFromScript(value any) (mgl64.Vec3, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	for i, key := range []string{"x", "y", "z"} {
		f, ok := scriptFloat(m[key])
		if !ok {
			return mgl64.Vec3{}, false
		}
		v[i] = f
	}
	return v, true
}

// scriptFloat accepts the numeric types script engines commonly hand back.
func scriptFloat(value any) (float64, bool) {
	switch f := value.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	case int64:
		return float64(f), true
	}
	return 0, false
}
