// Package audio plays sounds through a single beep mixer. When the speaker
// cannot be opened the manager keeps working silently, so sounds can still be
// created, played and stopped in headless runs.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// DefaultSampleRate is the mixer sample rate unless WithSampleRate is given.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrUnknownBuffer is returned when a sound refers to a buffer name that was
// never loaded.
var ErrUnknownBuffer = errors.New("audio: unknown buffer")

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSampleRate sets the mixer sample rate.
func WithSampleRate(sr beep.SampleRate) Option {
	return func(m *Manager) { m.sampleRate = sr }
}

// Manager owns the speaker, the mixer, the loaded buffers and the master volume.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	sampleRate  beep.SampleRate
	initialized bool
	master      float64
	buffers     map[string]*Buffer
	sounds      map[*Sound]struct{}
	logger      *log.Logger
}

// NewManager creates a silent manager. Call Initialize to open the speaker.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		mixer:      &beep.Mixer{},
		sampleRate: DefaultSampleRate,
		master:     100,
		buffers:    make(map[string]*Buffer),
		sounds:     make(map[*Sound]struct{}),
		logger:     log.Default().WithPrefix("audio"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize opens the speaker and starts the mixer. On failure the manager
// stays silent and the error is returned for the caller to log.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	m.logger.Debug("speaker initialized", "sample_rate", int(m.sampleRate))
	return nil
}

// Deinitialize stops every sound and clears the mixer.
func (m *Manager) Deinitialize() {
	m.mu.Lock()
	sounds := make([]*Sound, 0, len(m.sounds))
	for s := range m.sounds {
		sounds = append(sounds, s)
	}
	m.mu.Unlock()

	for _, s := range sounds {
		s.Stop()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

// IsSilent reports whether sounds are tracked without reaching the speaker.
func (m *Manager) IsSilent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.initialized
}

// SampleRate returns the mixer sample rate.
func (m *Manager) SampleRate() beep.SampleRate { return m.sampleRate }

// MasterVolume returns the master volume in [0,100].
func (m *Manager) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master
}

// SetMasterVolume sets the master volume, clipped to [0,100], and reapplies it
// to every live sound.
func (m *Manager) SetMasterVolume(v float64) {
	m.mu.Lock()
	m.master = ClipVolume(v)
	sounds := make([]*Sound, 0, len(m.sounds))
	for s := range m.sounds {
		sounds = append(sounds, s)
	}
	m.mu.Unlock()

	for _, s := range sounds {
		s.applyGain()
	}
}

// --- Buffers ---

// LoadWAV decodes a WAV stream into a buffer registered under name,
// resampling to the mixer rate if needed. Loading an existing name replaces it.
func (m *Manager) LoadWAV(name string, r io.Reader) (*Buffer, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("audio: decode %q: %w", name, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("audio: read %q: %w", name, err)
	}
	return m.addBuffer(name, buf), nil
}

// LoadFile loads a WAV file registered under its path.
func (m *Manager) LoadFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open: %w", err)
	}
	defer f.Close()
	return m.LoadWAV(path, f)
}

// LoadTone registers a sine tone of the given frequency and duration.
func (m *Manager) LoadTone(name string, freq float64, d time.Duration) (*Buffer, error) {
	sine, err := generators.SineTone(m.sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("audio: tone %q: %w", name, err)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(m.sampleRate.N(d), sine))
	return m.addBuffer(name, buf), nil
}

func (m *Manager) addBuffer(name string, buf *beep.Buffer) *Buffer {
	b := &Buffer{name: name, buf: buf, sampleRate: m.sampleRate}
	m.mu.Lock()
	m.buffers[name] = b
	m.mu.Unlock()
	return b
}

// Buffer returns the buffer registered under name.
func (m *Manager) Buffer(name string) (*Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buffers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuffer, name)
	}
	return b, nil
}

// UnloadBuffer forgets a buffer. Sounds already created from it keep playing.
func (m *Manager) UnloadBuffer(name string) {
	m.mu.Lock()
	delete(m.buffers, name)
	m.mu.Unlock()
}

// --- Sounds ---

// NewSound creates a stopped sound playing the named buffer at volume 100.
func (m *Manager) NewSound(bufferName string) (*Sound, error) {
	b, err := m.Buffer(bufferName)
	if err != nil {
		return nil, err
	}
	s := &Sound{manager: m, buffer: b, volume: 100}
	m.mu.Lock()
	m.sounds[s] = struct{}{}
	m.mu.Unlock()
	return s, nil
}

// NumSounds returns the number of sounds not yet released.
func (m *Manager) NumSounds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sounds)
}

func (m *Manager) release(s *Sound) {
	m.mu.Lock()
	delete(m.sounds, s)
	m.mu.Unlock()
}

// withSpeaker runs fn holding the speaker lock when the speaker is running.
func (m *Manager) withSpeaker(fn func(live bool)) {
	m.mu.Lock()
	live := m.initialized
	m.mu.Unlock()
	if live {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn(live)
}

func (m *Manager) addToMixer(s beep.Streamer) {
	m.mixer.Add(s)
}

// Buffer is decoded audio held in memory.
type Buffer struct {
	name       string
	buf        *beep.Buffer
	sampleRate beep.SampleRate
}

// Name returns the name the buffer was registered under.
func (b *Buffer) Name() string { return b.name }

// Len returns the length in samples.
func (b *Buffer) Len() int { return b.buf.Len() }

// Duration returns the playing time.
func (b *Buffer) Duration() time.Duration { return b.sampleRate.D(b.buf.Len()) }

// ClipVolume clips v into [0,100]. NaN becomes 0.
func ClipVolume(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
