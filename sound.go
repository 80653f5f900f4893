package ducttape

import (
	"github.com/ducttape-dev/ducttape/audio"
)

// SoundComponent plays one audio buffer from its node. The buffer is looked up
// by name in the engine's audio manager and loaded from the file of that name
// when missing. The sound is acquired lazily, once the node belongs to a scene
// registered with an engine, and released in OnDeinitialize.
type SoundComponent struct {
	BaseComponent

	file   string
	volume float64
	loop   bool

	sound  *audio.Sound
	warned bool
}

// NewSoundComponent creates a sound component for the given buffer name or
// WAV path at volume 100.
func NewSoundComponent(name, file string) *SoundComponent {
	return &SoundComponent{BaseComponent: NewBaseComponent(name), file: file, volume: 100}
}

// File returns the buffer name or path played by the component.
func (c *SoundComponent) File() string { return c.file }

// Sound returns the underlying sound, or nil before it has been acquired.
func (c *SoundComponent) Sound() *audio.Sound { return c.sound }

func (c *SoundComponent) OnInitialize() {
	c.acquire()
}

func (c *SoundComponent) OnDeinitialize() {
	if c.sound != nil {
		c.sound.Release()
		c.sound = nil
	}
}

func (c *SoundComponent) OnDisable() {
	if c.sound != nil && c.sound.Status() != audio.Stopped {
		c.sound.Stop()
		publish(c.Node(), SoundEventType, SoundEvent{Sound: c, Kind: SoundStopped})
	}
}

func (c *SoundComponent) OnSerialize(p *Packet) {
	p.Stream("file", &c.file)
	p.Stream("loop", &c.loop)
	vol := c.volume
	p.Stream("volume", &vol)
	if p.IsReading() {
		c.SetLoop(c.loop)
		if vol != c.volume {
			c.SetVolume(vol)
		}
	}
}

// acquire creates the sound once an engine is reachable.
func (c *SoundComponent) acquire() bool {
	if c.sound != nil {
		return true
	}
	if c.State() != StateInitialized {
		return false
	}
	e := c.Node().Engine()
	if e == nil {
		if !c.warned {
			logger.Warn("sound has no engine yet", "component", c.Name(), "node", c.Node().FullName())
			c.warned = true
		}
		return false
	}
	m := e.Audio()
	if _, err := m.Buffer(c.file); err != nil {
		if _, err := m.LoadFile(c.file); err != nil {
			logger.Error("cannot load sound", "component", c.Name(), "file", c.file, "err", err)
			return false
		}
	}
	s, err := m.NewSound(c.file)
	if err != nil {
		logger.Error("cannot create sound", "component", c.Name(), "err", err)
		return false
	}
	s.SetVolume(c.volume)
	s.SetLoop(c.loop)
	c.sound = s
	return true
}

// Play starts or resumes playback. Only active components play.
func (c *SoundComponent) Play() {
	if !c.IsActive() || !c.acquire() {
		return
	}
	c.sound.Play()
	publish(c.Node(), SoundEventType, SoundEvent{Sound: c, Kind: SoundPlayed})
}

// Pause holds playback.
func (c *SoundComponent) Pause() {
	if c.sound == nil || c.sound.Status() != audio.Playing {
		return
	}
	c.sound.Pause()
	publish(c.Node(), SoundEventType, SoundEvent{Sound: c, Kind: SoundPaused})
}

// Stop ends playback and rewinds.
func (c *SoundComponent) Stop() {
	if c.sound == nil {
		return
	}
	c.sound.Stop()
	publish(c.Node(), SoundEventType, SoundEvent{Sound: c, Kind: SoundStopped})
}

// Status returns the playback state; Stopped before the sound is acquired.
func (c *SoundComponent) Status() audio.Status {
	if c.sound == nil {
		return audio.Stopped
	}
	return c.sound.Status()
}

// Volume returns the component volume in [0,100].
func (c *SoundComponent) Volume() float64 { return c.volume }

// SetVolume sets the component volume, clipped to [0,100].
func (c *SoundComponent) SetVolume(v float64) {
	c.volume = audio.ClipVolume(v)
	if c.sound != nil {
		c.sound.SetVolume(c.volume)
	}
	publish(c.Node(), SoundEventType, SoundEvent{Sound: c, Kind: SoundVolumeChanged, Volume: c.volume})
}

// Loop reports whether the sound restarts when it ends.
func (c *SoundComponent) Loop() bool { return c.loop }

// SetLoop makes the sound restart when it ends.
func (c *SoundComponent) SetLoop(loop bool) {
	c.loop = loop
	if c.sound != nil {
		c.sound.SetLoop(loop)
	}
}

// SetMasterVolume changes the engine-wide master volume and stores it in the
// audio settings. It affects every sound, not just this one.
func (c *SoundComponent) SetMasterVolume(v float64) {
	e := c.Node().Engine()
	if e == nil {
		logger.Warn("cannot set master volume without an engine", "component", c.Name())
		return
	}
	e.AudioSettings().SetMasterVolume(v)
	e.ApplyAudioSettings()
	publish(c.Node(), SoundEventType, SoundEvent{Sound: c, Kind: SoundMasterVolumeChanged, Volume: e.Audio().MasterVolume()})
}
