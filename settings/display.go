package settings

import (
	"strconv"
	"strings"
)

// QualityLevel is the general rendering quality.
type QualityLevel uint8

const (
	QualityNone QualityLevel = iota
	QualityLow
	QualityMedium
	QualityHigh
	QualityUltra
)

var qualityNames = []string{"None", "Low", "Medium", "High", "Ultra"}

func (q QualityLevel) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return "Unknown"
}

// AntiAliasingLevel is the multisampling level.
type AntiAliasingLevel uint8

const (
	AntiAliasingNone AntiAliasingLevel = iota
	AntiAliasingX2
	AntiAliasingX4
	AntiAliasingX8
	AntiAliasingX16
)

var antiAliasingNames = []string{"None", "X2", "X4", "X8", "X16"}

func (a AntiAliasingLevel) String() string {
	if int(a) < len(antiAliasingNames) {
		return antiAliasingNames[a]
	}
	return "Unknown"
}

// Resolution is a window size in pixels.
type Resolution struct {
	Width, Height int
}

// Display holds window and rendering settings.
type Display struct {
	resolution   Resolution
	refreshRate  int
	quality      QualityLevel
	antiAliasing AntiAliasingLevel
	fullscreen   bool
	vsync        bool
}

// NewDisplay returns 1024x768 at 60 Hz, medium quality, no anti-aliasing,
// windowed with vsync.
func NewDisplay() *Display {
	return &Display{
		resolution:  Resolution{Width: 1024, Height: 768},
		refreshRate: 60,
		quality:     QualityMedium,
		vsync:       true,
	}
}

func (d *Display) Name() string { return "Display" }

func (d *Display) Resolution() Resolution { return d.resolution }

// SetResolution sets the window size. Non-positive sizes are ignored.
func (d *Display) SetResolution(width, height int) {
	if width <= 0 || height <= 0 {
		logger.Warn("ignoring invalid resolution", "width", width, "height", height)
		return
	}
	d.resolution = Resolution{Width: width, Height: height}
}

func (d *Display) RefreshRate() int { return d.refreshRate }

// SetRefreshRate sets the refresh rate in Hz, clipped to [1,255].
func (d *Display) SetRefreshRate(hz int) {
	d.refreshRate = int(clipRange(float64(hz), 1, 255))
}

func (d *Display) GeneralQuality() QualityLevel { return d.quality }

func (d *Display) SetGeneralQuality(q QualityLevel) {
	if q > QualityUltra {
		q = QualityUltra
	}
	d.quality = q
}

func (d *Display) AntiAliasing() AntiAliasingLevel { return d.antiAliasing }

func (d *Display) SetAntiAliasing(a AntiAliasingLevel) {
	if a > AntiAliasingX16 {
		a = AntiAliasingX16
	}
	d.antiAliasing = a
}

func (d *Display) Fullscreen() bool      { return d.fullscreen }
func (d *Display) SetFullscreen(on bool) { d.fullscreen = on }
func (d *Display) VSync() bool           { return d.vsync }
func (d *Display) SetVSync(on bool)      { d.vsync = on }

func (d *Display) OnToXML(parent *Element) {
	res := parent.AddChild("Resolution")
	res.AddValue("Width", strconv.Itoa(d.resolution.Width))
	res.AddValue("Height", strconv.Itoa(d.resolution.Height))
	parent.AddValue("Refresh_Rate", strconv.Itoa(d.refreshRate))
	parent.AddValue("General_Quality_Level", d.quality.String())
	parent.AddValue("Anti-Aliasing_Level", d.antiAliasing.String())
	parent.AddValue("Fullscreen", strconv.FormatBool(d.fullscreen))
	parent.AddValue("VSync", strconv.FormatBool(d.vsync))
}

func (d *Display) OnFromXML(parent *Element) {
	if parent == nil {
		return
	}
	if res := parent.Child("Resolution"); res != nil {
		w, okW := res.ChildInt("Width")
		h, okH := res.ChildInt("Height")
		if !okW {
			w = d.resolution.Width
		}
		if !okH {
			h = d.resolution.Height
		}
		d.SetResolution(w, h)
	}
	if hz, ok := parent.ChildInt("Refresh_Rate"); ok {
		d.SetRefreshRate(hz)
	}
	if i, ok := parseLevel(parent.Child("General_Quality_Level"), qualityNames); ok {
		d.SetGeneralQuality(QualityLevel(i))
	}
	if i, ok := parseLevel(parent.Child("Anti-Aliasing_Level"), antiAliasingNames); ok {
		d.SetAntiAliasing(AntiAliasingLevel(i))
	}
	if b, ok := parent.ChildBool("Fullscreen"); ok {
		d.fullscreen = b
	}
	if b, ok := parent.ChildBool("VSync"); ok {
		d.vsync = b
	}
}

// ParseQuality accepts a quality name (case-insensitive) or its index.
func ParseQuality(v string) (QualityLevel, bool) {
	i, ok := levelIndex(v, qualityNames)
	return QualityLevel(i), ok
}

// ParseAntiAliasing accepts an anti-aliasing name (case-insensitive) or its
// index.
func ParseAntiAliasing(v string) (AntiAliasingLevel, bool) {
	i, ok := levelIndex(v, antiAliasingNames)
	return AntiAliasingLevel(i), ok
}

// parseLevel accepts a level name or its numeric index.
func parseLevel(e *Element, names []string) (int, bool) {
	if e == nil {
		return 0, false
	}
	i, ok := levelIndex(e.Value(), names)
	if !ok {
		logger.Warn("ignoring unknown level", "element", e.Name(), "value", e.Value())
	}
	return i, ok
}

func levelIndex(v string, names []string) (int, bool) {
	for i, n := range names {
		if strings.EqualFold(n, v) {
			return i, true
		}
	}
	if i, err := strconv.Atoi(v); err == nil && i >= 0 && i < len(names) {
		return i, true
	}
	return 0, false
}
