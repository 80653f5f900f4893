package settings

// Audio holds volumes in percent. Every setter clips into [0,100].
type Audio struct {
	master float64
	music  float64
	sound  float64
}

// NewAudio returns audio settings with every volume at 100.
func NewAudio() *Audio {
	return &Audio{master: 100, music: 100, sound: 100}
}

func (a *Audio) Name() string { return "Audio" }

func (a *Audio) MasterVolume() float64 { return a.master }
func (a *Audio) MusicVolume() float64  { return a.music }
func (a *Audio) SoundVolume() float64  { return a.sound }

func (a *Audio) SetMasterVolume(v float64) { a.master = clipVolume(v) }
func (a *Audio) SetMusicVolume(v float64)  { a.music = clipVolume(v) }
func (a *Audio) SetSoundVolume(v float64)  { a.sound = clipVolume(v) }

func (a *Audio) OnToXML(parent *Element) {
	parent.AddValue("Master_Volume", formatFloat(a.master))
	parent.AddValue("Music_Volume", formatFloat(a.music))
	parent.AddValue("Sound_Volume", formatFloat(a.sound))
}

func (a *Audio) OnFromXML(parent *Element) {
	if parent == nil {
		return
	}
	if v, ok := parent.ChildFloat("Master_Volume"); ok {
		a.SetMasterVolume(v)
	}
	if v, ok := parent.ChildFloat("Music_Volume"); ok {
		a.SetMusicVolume(v)
	}
	if v, ok := parent.ChildFloat("Sound_Volume"); ok {
		a.SetSoundVolume(v)
	}
}

func clipVolume(v float64) float64 { return clipRange(v, 0, 100) }
