package ducttape

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ducttape-dev/ducttape/audio"
	"github.com/ducttape-dev/ducttape/input"
	"github.com/ducttape-dev/ducttape/settings"
)

// FrameListener receives the per-frame tick.
type FrameListener interface {
	HandleFrame(dt float64)
}

// Engine is the explicit runtime context: it owns the input and audio
// managers and the settings, holds the scenes, and delivers frames to its
// listeners in registration order. It implements ebiten.Game.
type Engine struct {
	input    *input.Manager
	audio    *audio.Manager
	audioCfg *settings.Audio
	display  *settings.Display
	inputCfg *settings.Input

	scenes     map[string]*Scene
	sceneOrder []string
	listeners  []FrameListener

	tickRate    int
	initialized bool
	paused      bool
	quit        bool
	silent      bool
	startedAt   time.Time
	now         func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger replaces the package logger used by the engine and its nodes.
func WithLogger(l *log.Logger) EngineOption {
	return func(*Engine) { SetLogger(l) }
}

// WithInputManager sets the input manager. The default polls ebiten.
func WithInputManager(m *input.Manager) EngineOption {
	return func(e *Engine) { e.input = m }
}

// WithAudioManager sets the audio manager.
func WithAudioManager(m *audio.Manager) EngineOption {
	return func(e *Engine) { e.audio = m }
}

// WithSettings sets the settings the engine applies. Nil values keep defaults.
func WithSettings(a *settings.Audio, d *settings.Display, in *settings.Input) EngineOption {
	return func(e *Engine) {
		if a != nil {
			e.audioCfg = a
		}
		if d != nil {
			e.display = d
		}
		if in != nil {
			e.inputCfg = in
		}
	}
}

// WithSilentAudio keeps the speaker closed. Sounds are still tracked, which
// is what headless runs and tests need.
func WithSilentAudio() EngineOption {
	return func(e *Engine) { e.silent = true }
}

// WithTickRate sets the fixed update rate in ticks per second.
func WithTickRate(tps int) EngineOption {
	return func(e *Engine) {
		if tps > 0 {
			e.tickRate = tps
		}
	}
}

// WithClock replaces time.Now for TimeSinceInitialize.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine. Nothing starts until Initialize.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		audioCfg: settings.NewAudio(),
		display:  settings.NewDisplay(),
		inputCfg: settings.DefaultInput(),
		scenes:   make(map[string]*Scene),
		tickRate: 60,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.input == nil {
		e.input = input.NewManager(nil, input.WithLogger(logger.WithPrefix("input")))
	}
	if e.audio == nil {
		e.audio = audio.NewManager(audio.WithLogger(logger.WithPrefix("audio")))
	}
	return e
}

// Input returns the input manager.
func (e *Engine) Input() *input.Manager { return e.input }

// Audio returns the audio manager.
func (e *Engine) Audio() *audio.Manager { return e.audio }

// AudioSettings returns the audio settings.
func (e *Engine) AudioSettings() *settings.Audio { return e.audioCfg }

// DisplaySettings returns the display settings.
func (e *Engine) DisplaySettings() *settings.Display { return e.display }

// InputSettings returns the key bindings.
func (e *Engine) InputSettings() *settings.Input { return e.inputCfg }

// TickRate returns the fixed update rate.
func (e *Engine) TickRate() int { return e.tickRate }

// Initialize starts the audio manager, applies the audio settings and
// initializes every scene in the order they were added. A failing audio device
// leaves the engine running silently.
func (e *Engine) Initialize() {
	if e.initialized {
		return
	}
	if !e.silent {
		if err := e.audio.Initialize(); err != nil {
			logger.Warn("audio unavailable, running silent", "err", err)
		}
	}
	e.ApplyAudioSettings()
	e.startedAt = e.now()
	e.initialized = true
	for _, name := range append([]string(nil), e.sceneOrder...) {
		e.scenes[name].Initialize()
	}
	logger.Info("engine initialized", "scenes", len(e.sceneOrder))
}

// Deinitialize tears the scenes down in reverse order, then stops audio.
func (e *Engine) Deinitialize() {
	if !e.initialized {
		return
	}
	for i := len(e.sceneOrder) - 1; i >= 0; i-- {
		e.scenes[e.sceneOrder[i]].Deinitialize()
	}
	e.audio.Deinitialize()
	e.initialized = false
	logger.Info("engine deinitialized")
}

// IsInitialized reports whether the engine is running.
func (e *Engine) IsInitialized() bool { return e.initialized }

// ApplyAudioSettings pushes the master volume to the audio manager.
func (e *Engine) ApplyAudioSettings() {
	e.audio.SetMasterVolume(e.audioCfg.MasterVolume())
}

// TimeSinceInitialize returns the time elapsed since Initialize, or zero.
func (e *Engine) TimeSinceInitialize() time.Duration {
	if !e.initialized {
		return 0
	}
	return e.now().Sub(e.startedAt)
}

// --- Scenes ---

// AddScene registers s. It returns false if a scene with the same name exists
// or s already belongs to an engine. Scenes added to a running engine are
// initialized immediately.
func (e *Engine) AddScene(s *Scene) bool {
	if s == nil || s.disposed {
		return false
	}
	if s.engine != nil {
		logger.Error("scene already belongs to an engine", "scene", s.name)
		return false
	}
	if _, ok := e.scenes[s.name]; ok {
		logger.Error("scene name already in use", "scene", s.name)
		return false
	}
	s.engine = e
	e.scenes[s.name] = s
	e.sceneOrder = append(e.sceneOrder, s.name)
	if e.initialized {
		s.Initialize()
	}
	return true
}

// Scene returns the scene called name, or nil.
func (e *Engine) Scene(name string) *Scene { return e.scenes[name] }

// Scenes returns the scenes in the order they were added.
func (e *Engine) Scenes() []*Scene {
	out := make([]*Scene, 0, len(e.sceneOrder))
	for _, name := range e.sceneOrder {
		out = append(out, e.scenes[name])
	}
	return out
}

// RemoveScene deinitializes and disposes the scene called name.
func (e *Engine) RemoveScene(name string) {
	s, ok := e.scenes[name]
	if !ok {
		return
	}
	s.Deinitialize()
	delete(e.scenes, name)
	e.sceneOrder = removeName(e.sceneOrder, name)
	s.engine = nil
	s.dispose()
}

// --- Frames ---

// AddFrameListener registers l. Adding a registered listener is a no-op.
func (e *Engine) AddFrameListener(l FrameListener) {
	for _, x := range e.listeners {
		if x == l {
			return
		}
	}
	e.listeners = append(e.listeners, l)
}

// RemoveFrameListener unregisters l.
func (e *Engine) RemoveFrameListener(l FrameListener) {
	for i, x := range e.listeners {
		if x == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Pause stops frame delivery. Input keeps being polled.
func (e *Engine) Pause() { e.paused = true }

// Resume restarts frame delivery.
func (e *Engine) Resume() { e.paused = false }

// IsPaused reports whether frames are withheld.
func (e *Engine) IsPaused() bool { return e.paused }

// Tick delivers one frame of dt seconds to every listener in registration
// order. Listeners added or removed during the tick take effect next frame.
func (e *Engine) Tick(dt float64) {
	if e.paused || !e.initialized {
		return
	}
	for _, l := range append([]FrameListener(nil), e.listeners...) {
		l.HandleFrame(dt)
	}
}

// --- ebiten.Game ---

// ErrQuit ends Run cleanly when returned from a frame.
var ErrQuit = errors.New("ducttape: quit")

// Update polls input and ticks one fixed step.
func (e *Engine) Update() error {
	e.input.Update()
	e.Tick(1 / float64(e.tickRate))
	if e.quit {
		return ErrQuit
	}
	return nil
}

// Draw renders every active scene that has a scene manager, in order.
func (e *Engine) Draw(screen *ebiten.Image) {
	for _, name := range e.sceneOrder {
		s := e.scenes[name]
		if s.manager != nil && s.IsActive() {
			s.manager.Draw(screen, s)
		}
	}
}

// Layout keeps a 1:1 mapping between window and screen pixels.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Quit makes the next Update end the game loop.
func (e *Engine) Quit() { e.quit = true }

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Resizable bool
	// Debug enables debug checks on all nodes.
	Debug bool
}

// Run opens a window sized from the display settings, initializes the engine
// and blocks until the window closes or Quit is called.
func Run(e *Engine, cfg RunConfig) error {
	SetDebugMode(cfg.Debug)

	res := e.display.Resolution()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(res.Width, res.Height)
	ebiten.SetFullscreen(e.display.Fullscreen())
	ebiten.SetVsyncEnabled(e.display.VSync())
	ebiten.SetTPS(e.tickRate)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	e.Initialize()
	defer e.Deinitialize()

	err := ebiten.RunGame(e)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Engine returns the engine of the scene n belongs to, or nil.
func (n *Node) Engine() *Engine {
	if s := n.Scene(); s != nil {
		return s.engine
	}
	return nil
}
