package ducttape

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// captureLogs routes the package logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func withDebugMode(t *testing.T) {
	t.Helper()
	SetDebugMode(true)
	t.Cleanup(func() { SetDebugMode(false) })
}

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	withDebugMode(t)
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	root.RemoveChildNode("child")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "disposed node") {
			t.Errorf("panic = %v", r)
		}
	}()
	child.AddChildNode(NewNode("x"))
}

func TestReleaseMode_DisposedNodeLogs(t *testing.T) {
	buf := captureLogs(t)
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	root.RemoveChildNode("child")

	child.Enable()
	if !strings.Contains(buf.String(), "operation on disposed node") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	withDebugMode(t)
	buf := captureLogs(t)
	n := NewNode("n0")
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		n = n.AddChildNode(NewNode("n"))
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Error("expected depth warning")
	}
}

func TestDuplicateNameLogsError(t *testing.T) {
	buf := captureLogs(t)
	n := NewNode("n")
	n.AddChildNode(NewNode("a"))
	n.AddChildNode(NewNode("a"))
	if !strings.Contains(buf.String(), "a child with this name already exists") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestDump(t *testing.T) {
	root := NewNode("root")
	child := root.AddChildNode(NewNode("child"))
	child.SetPosition(mgl64.Vec3{1, 2, 3}, RelativeToParent)
	child.AddComponent(newRecorder("rec", nil))
	child.Disable()

	out := Dump(root)
	for _, want := range []string{
		"root [on]",
		"  child [off] (1.00, 2.00, 3.00)",
		"* rec *ducttape.recorder [on] initialized",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump missing %q:\n%s", want, out)
		}
	}
}

func TestScriptObject(t *testing.T) {
	root := NewNode("root")
	n := root.AddChildNode(NewNode("n"))
	n.SetPosition(mgl64.Vec3{1, 2, 3}, RelativeToParent)
	n.AddComponent(newRecorder("rec", nil))

	obj := n.ScriptObject()
	if obj["fullName"] != "root/n" || obj["enabled"] != true {
		t.Errorf("ScriptObject = %v", obj)
	}
	pos := obj["position"].(map[string]any)
	if pos["x"] != 1.0 || pos["z"] != 3.0 {
		t.Errorf("position = %v", pos)
	}
	if comps := obj["components"].([]string); len(comps) != 1 || comps[0] != "rec" {
		t.Errorf("components = %v", comps)
	}
}

func TestSetScriptProperty(t *testing.T) {
	n := NewNode("n")
	if !n.SetScriptProperty("position", map[string]any{"x": 1, "y": 2.5, "z": float32(-1)}) {
		t.Fatal("position rejected")
	}
	assertVec(t, "position", n.Position(RelativeToParent), mgl64.Vec3{1, 2.5, -1})

	if !n.SetScriptProperty("enabled", false) || n.IsEnabled() {
		t.Error("enabled not applied")
	}
	if !n.SetScriptProperty("rotation", scriptQuat(yaw(90))) {
		t.Error("rotation rejected")
	}
	assertQuat(t, "rotation", n.Rotation(RelativeToParent), yaw(90))

	if n.SetScriptProperty("position", "nope") {
		t.Error("bad value accepted")
	}
	if n.SetScriptProperty("name", "x") {
		t.Error("read-only property accepted")
	}
}
