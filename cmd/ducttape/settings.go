package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ducttape-dev/ducttape/input"
	"github.com/ducttape-dev/ducttape/settings"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(22)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	pathStyle    = lipgloss.NewStyle().Faint(true)
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change engine settings",
	Long: `Settings are stored as XML files, one per group, in the settings
directory: Audio.xml, Display.xml and Input.xml.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	Run:   runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save it",
	Long: `Change one setting and write the settings files.

Keys:
  audio.master, audio.music, audio.sound     0-100
  display.width, display.height              pixels
  display.refresh                            Hz
  display.quality                            None, Low, Medium, High, Ultra
  display.antialiasing                       None, X2, X4, X8, X16
  display.fullscreen, display.vsync          true/false
  input.invert                               true/false
  input.sensitivity                          0-1
  input.<Function>                           key name, e.g. W, Space, MouseLeft

Examples:
  ducttape settings set audio.master 40
  ducttape settings set input.Jump E`,
	Args: cobra.ExactArgs(2),
	Run:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	store, a, d, in, err := loadSettings(cfg)
	if err != nil {
		fail("loading settings: %v", err)
	}
	fmt.Print(renderSettings(store, a, d, in))
}

func renderSettings(store *settings.Store, a *settings.Audio, d *settings.Display, in *settings.Input) string {
	var b strings.Builder
	row := func(k string, v any) {
		b.WriteString("  " + keyStyle.Render(k) + valueStyle.Render(fmt.Sprint(v)) + "\n")
	}
	section := func(s settings.Settings) {
		b.WriteString(sectionStyle.Render(s.Name()) + " " + pathStyle.Render(store.Path(s.Name())) + "\n")
	}

	section(a)
	row("master", a.MasterVolume())
	row("music", a.MusicVolume())
	row("sound", a.SoundVolume())
	b.WriteString("\n")

	section(d)
	res := d.Resolution()
	row("resolution", fmt.Sprintf("%dx%d", res.Width, res.Height))
	row("refresh", fmt.Sprintf("%d Hz", d.RefreshRate()))
	row("quality", d.GeneralQuality())
	row("antialiasing", d.AntiAliasing())
	row("fullscreen", d.Fullscreen())
	row("vsync", d.VSync())
	b.WriteString("\n")

	section(in)
	row("invert", in.MouseYInverted())
	row("sensitivity", in.MouseSensitivity())
	for _, m := range in.Mappings() {
		row(m.Function, m.Key)
	}
	return b.String()
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	store, a, d, in, err := loadSettings(cfg)
	if err != nil {
		fail("loading settings: %v", err)
	}
	if err := applySetting(a, d, in, args[0], args[1]); err != nil {
		fail("%v", err)
	}
	if err := store.Save(a, d, in); err != nil {
		fail("saving settings: %v", err)
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
}

// applySetting sets one dotted key. Out-of-range numbers are clipped by the
// settings setters.
func applySetting(a *settings.Audio, d *settings.Display, in *settings.Input, key, value string) error {
	group, name, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("invalid key %q, want <group>.<name>", key)
	}
	switch strings.ToLower(group) {
	case "audio":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch name {
		case "master":
			a.SetMasterVolume(v)
		case "music":
			a.SetMusicVolume(v)
		case "sound":
			a.SetSoundVolume(v)
		default:
			return fmt.Errorf("unknown audio setting %q", name)
		}
	case "display":
		return applyDisplay(d, name, value)
	case "input":
		return applyInput(in, name, value)
	default:
		return fmt.Errorf("unknown settings group %q", group)
	}
	return nil
}

func applyDisplay(d *settings.Display, name, value string) error {
	switch name {
	case "width", "height", "refresh":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("display.%s: %w", name, err)
		}
		res := d.Resolution()
		switch name {
		case "width":
			d.SetResolution(n, res.Height)
		case "height":
			d.SetResolution(res.Width, n)
		default:
			d.SetRefreshRate(n)
		}
	case "quality":
		q, ok := settings.ParseQuality(value)
		if !ok {
			return fmt.Errorf("unknown quality level %q", value)
		}
		d.SetGeneralQuality(q)
	case "antialiasing":
		aa, ok := settings.ParseAntiAliasing(value)
		if !ok {
			return fmt.Errorf("unknown anti-aliasing level %q", value)
		}
		d.SetAntiAliasing(aa)
	case "fullscreen", "vsync":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("display.%s: %w", name, err)
		}
		if name == "fullscreen" {
			d.SetFullscreen(on)
		} else {
			d.SetVSync(on)
		}
	default:
		return fmt.Errorf("unknown display setting %q", name)
	}
	return nil
}

func applyInput(in *settings.Input, name, value string) error {
	switch name {
	case "invert":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("input.invert: %w", err)
		}
		in.SetMouseYInverted(on)
		return nil
	case "sensitivity":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("input.sensitivity: %w", err)
		}
		in.SetMouseSensitivity(v)
		return nil
	}

	key, ok := input.ParseCode(value)
	if !ok {
		return fmt.Errorf("unknown key %q", value)
	}
	if in.HasFunction(name) {
		in.SetKey(name, key)
		return nil
	}
	if !in.AddFunction(name, key) {
		return fmt.Errorf("invalid function name %q", name)
	}
	return nil
}
