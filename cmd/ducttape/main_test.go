package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ducttape-dev/ducttape"
	"github.com/ducttape-dev/ducttape/config"
	"github.com/ducttape-dev/ducttape/input"
	"github.com/ducttape-dev/ducttape/settings"
	"github.com/ducttape-dev/ducttape/storage"
)

func TestApplySetting(t *testing.T) {
	a, d, in := settings.NewAudio(), settings.NewDisplay(), settings.DefaultInput()

	tests := []struct {
		key, value string
	}{
		{"audio.master", "40"},
		{"audio.sound", "250"},
		{"display.width", "800"},
		{"display.quality", "high"},
		{"display.antialiasing", "X4"},
		{"display.fullscreen", "true"},
		{"input.invert", "true"},
		{"input.sensitivity", "0.5"},
		{"input.Jump", "E"},
		{"input.Crouch", "C"},
	}
	for _, tt := range tests {
		if err := applySetting(a, d, in, tt.key, tt.value); err != nil {
			t.Fatalf("applySetting(%s, %s): %v", tt.key, tt.value, err)
		}
	}

	if a.MasterVolume() != 40 || a.SoundVolume() != 100 {
		t.Errorf("audio = %v, %v", a.MasterVolume(), a.SoundVolume())
	}
	if d.Resolution().Width != 800 || d.GeneralQuality() != settings.QualityHigh ||
		d.AntiAliasing() != settings.AntiAliasingX4 || !d.Fullscreen() {
		t.Errorf("display not applied: %+v", d)
	}
	if !in.MouseYInverted() || in.MouseSensitivity() != 0.5 {
		t.Error("mouse settings not applied")
	}
	if in.KeyFor(ducttape.FunctionJump).String() != "E" {
		t.Errorf("Jump = %v", in.KeyFor(ducttape.FunctionJump))
	}
	if !in.HasFunction("Crouch") {
		t.Error("new function not added")
	}
}

func TestApplySettingErrors(t *testing.T) {
	a, d, in := settings.NewAudio(), settings.NewDisplay(), settings.DefaultInput()
	for _, tt := range []struct{ key, value string }{
		{"master", "40"},
		{"audio.master", "loud"},
		{"audio.bass", "1"},
		{"display.quality", "extreme"},
		{"display.vsync", "maybe"},
		{"input.Jump", "NoSuchKey"},
		{"input.bad name", "E"},
		{"video.width", "1"},
	} {
		if err := applySetting(a, d, in, tt.key, tt.value); err == nil {
			t.Errorf("applySetting(%s, %s) should fail", tt.key, tt.value)
		}
	}
}

func TestRenderSettings(t *testing.T) {
	store := settings.NewStore(t.TempDir())
	out := renderSettings(store, settings.NewAudio(), settings.NewDisplay(), settings.DefaultInput())
	if out == "" {
		t.Fatal("empty output")
	}
}

func TestBuildDemoScene(t *testing.T) {
	scene := buildDemoScene()
	for _, name := range []string{"floor", "crates", "goal", "player"} {
		if scene.FindChildNode(name, false) == nil {
			t.Errorf("missing node %q", name)
		}
	}
	if scene.FindChildNode("crate3", true) == nil {
		t.Error("missing crates")
	}
	player := scene.FindChildNode("player", false)
	for _, c := range []string{"body", "aim", "controller"} {
		if !player.HasComponent(c) {
			t.Errorf("player missing %q", c)
		}
	}
}

func TestDemoQuicksaveQuickload(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	src := input.NewScriptedSource()
	e := ducttape.NewEngine(ducttape.WithInputManager(input.NewManager(src)), ducttape.WithSilentAudio())
	if err := loadDemoSounds(e.Audio()); err != nil {
		t.Fatalf("loadDemoSounds: %v", err)
	}
	scene := buildDemoScene()
	e.AddScene(scene)
	e.AddFrameListener(&demoControls{engine: e, scene: scene, store: store})
	e.Initialize()
	defer e.Deinitialize()

	player := scene.FindChildNode("player", false)
	player.SetPosition(mgl64.Vec3{3, 0, 3}, ducttape.RelativeToParent)

	src.Tap(keySave)
	src.Tap(keyLoad)
	e.Update() // F5 down

	snaps, err := store.List(demoSceneName, 0)
	if err != nil || len(snaps) != 1 {
		t.Fatalf("List = %v, %v", snaps, err)
	}

	player.SetPosition(mgl64.Vec3{}, ducttape.RelativeToParent)
	e.Update() // F5 up
	e.Update() // F9 down

	got := player.Position(ducttape.RelativeToParent)
	if !got.ApproxEqualThreshold(mgl64.Vec3{3, 0, 3}, 1e-6) {
		t.Errorf("restored position = %v", got)
	}

	src.Tap(keyQuit)
	e.Update() // F9 up
	if err := e.Update(); err != ducttape.ErrQuit {
		t.Errorf("Update after Esc = %v, want ErrQuit", err)
	}
}

func TestRenderSnapshot(t *testing.T) {
	scene := buildDemoScene()
	data, err := scene.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	p, err := ducttape.ReadPacket(data)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	out := renderSnapshot(demoSceneName, p)
	for _, want := range []string{demoSceneName, "crate0", "* body", "* controller", "range=15"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestWindowSizeIsDefaultResolution(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.Dir = t.TempDir()
	cfg.Window.Width, cfg.Window.Height = 640, 480

	store, _, d, _, err := loadSettings(cfg)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if d.Resolution() != (settings.Resolution{Width: 640, Height: 480}) {
		t.Errorf("Resolution without a file = %v", d.Resolution())
	}

	d.SetResolution(800, 600)
	if err := store.Save(d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, _, d, _, err = loadSettings(cfg)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if d.Resolution() != (settings.Resolution{Width: 800, Height: 600}) {
		t.Errorf("stored Resolution = %v", d.Resolution())
	}
}
