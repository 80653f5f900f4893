package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Status is the playback state of a Sound.
type Status uint8

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Sound is one playable instance of a Buffer with its own volume.
type Sound struct {
	manager *Manager
	buffer  *Buffer
	volume  float64
	loop    bool

	// Guarded by the speaker lock while the speaker runs.
	status   Status
	ctrl     *beep.Ctrl
	gain     *effects.Volume
	finished bool
	released bool
}

// Buffer returns the buffer the sound plays.
func (s *Sound) Buffer() *Buffer { return s.buffer }

// Volume returns the sound volume in [0,100].
func (s *Sound) Volume() float64 { return s.volume }

// SetVolume sets the volume, clipped to [0,100].
func (s *Sound) SetVolume(v float64) {
	s.volume = ClipVolume(v)
	s.applyGain()
}

// SetLoop makes the sound restart from the beginning when it ends.
func (s *Sound) SetLoop(loop bool) {
	s.manager.withSpeaker(func(bool) { s.loop = loop })
}

// Gain returns the linear amplitude factor: volume times master volume, both
// scaled to [0,1].
func (s *Sound) Gain() float64 {
	return s.volume / 100 * s.manager.MasterVolume() / 100
}

// Status returns the playback state. A sound that reached its end without
// looping reports Stopped.
func (s *Sound) Status() Status {
	var st Status
	s.manager.withSpeaker(func(bool) {
		if s.status == Playing && s.finished {
			s.status = Stopped
		}
		st = s.status
	})
	return st
}

// Play starts the sound from the beginning, or resumes it when paused.
func (s *Sound) Play() {
	s.manager.withSpeaker(func(live bool) {
		if s.released {
			return
		}
		if s.status == Paused && s.ctrl != nil {
			s.ctrl.Paused = false
			s.status = Playing
			return
		}
		if s.status == Playing && !s.finished {
			return
		}
		s.finished = false
		s.ctrl = &beep.Ctrl{Streamer: &track{sound: s, stream: s.buffer.buf.Streamer(0, s.buffer.buf.Len())}}
		s.gain = &effects.Volume{Streamer: s.ctrl, Base: 2}
		setGain(s.gain, s.Gain())
		if live {
			s.manager.addToMixer(s.gain)
		}
		s.status = Playing
	})
}

// Pause holds the playback position. No-op unless playing.
func (s *Sound) Pause() {
	s.manager.withSpeaker(func(bool) {
		if s.status != Playing || s.ctrl == nil {
			return
		}
		s.ctrl.Paused = true
		s.status = Paused
	})
}

// Stop ends playback and rewinds. The mixer drops the stream on its next pass.
func (s *Sound) Stop() {
	s.manager.withSpeaker(func(bool) {
		if s.ctrl != nil {
			s.ctrl.Streamer = nil
		}
		s.ctrl = nil
		s.gain = nil
		s.status = Stopped
	})
}

// Release stops the sound and detaches it from the manager. The sound cannot
// be played again.
func (s *Sound) Release() {
	s.Stop()
	s.manager.withSpeaker(func(bool) { s.released = true })
	s.manager.release(s)
}

func (s *Sound) applyGain() {
	g := s.Gain()
	s.manager.withSpeaker(func(bool) {
		if s.gain != nil {
			setGain(s.gain, g)
		}
	})
}

// setGain maps a linear factor onto beep's logarithmic volume.
func setGain(v *effects.Volume, g float64) {
	if g <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(g)
}

// track streams a buffer once, or forever when the sound loops, and records
// when it runs out.
type track struct {
	sound  *Sound
	stream beep.StreamSeeker
}

func (t *track) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := t.stream.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			continue
		}
		if !t.sound.loop || t.stream.Len() == 0 {
			break
		}
		if err := t.stream.Seek(0); err != nil {
			break
		}
	}
	if filled == 0 {
		t.sound.finished = true
		return 0, false
	}
	return filled, true
}

func (t *track) Err() error { return t.stream.Err() }
