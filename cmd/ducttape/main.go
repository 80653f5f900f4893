// ducttape runs the demo scene and manages engine settings and saved scenes.
//
// Usage:
//
//	ducttape run                    - Open the demo scene in a window
//	ducttape settings show          - Print audio, display and input settings
//	ducttape settings set <k> <v>   - Change one setting and save it
//	ducttape saves list [scene]     - List saved scene snapshots
//	ducttape saves show <id>        - Print one snapshot
//	ducttape saves delete <id>      - Delete one snapshot
//
// Global flags:
//
//	--config <path>     - Engine YAML config (default: ~/.ducttape/engine.yaml)
//	--log-level <lvl>   - Override the configured log level
//	--settings <dir>    - Override the settings directory
//	--db <path>         - Override the snapshot database path
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ducttape-dev/ducttape"
	"github.com/ducttape-dev/ducttape/config"
	"github.com/ducttape-dev/ducttape/settings"
)

var (
	// Global flags
	flagConfig      string
	flagLogLevel    string
	flagSettingsDir string
	flagDBPath      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ducttape",
	Short: "ducttape - a component scene graph on Ebitengine",
	Long: `ducttape builds games from nodes and components: physics bodies,
trigger areas, raycasts, sounds, tweens and a first-person player controller.

Available commands:
  run       - Open the demo scene
  settings  - Show or change engine settings
  saves     - Inspect saved scene snapshots

Examples:
  ducttape run
  ducttape settings set audio.master 40
  ducttape saves list demo`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "engine config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagSettingsDir, "settings", "", "settings directory")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "snapshot database path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(savesCmd)
}

// loadConfig reads the engine config, applies flag overrides and sets the
// log level of the engine logger.
func loadConfig() (config.Engine, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Engine{}, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagSettingsDir != "" {
		cfg.Settings.Dir = flagSettingsDir
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Engine{}, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
		Prefix:          "ducttape",
	})
	ducttape.SetLogger(logger)
	settings.SetLogger(logger.WithPrefix("settings"))
	return cfg, nil
}

// loadSettings returns the stored settings, falling back to defaults for
// missing files. The configured window size is the default resolution.
func loadSettings(cfg config.Engine) (*settings.Store, *settings.Audio, *settings.Display, *settings.Input, error) {
	store := settings.NewStore(cfg.Settings.Dir)
	a, d, in := settings.NewAudio(), settings.NewDisplay(), settings.DefaultInput()
	d.SetResolution(cfg.Window.Width, cfg.Window.Height)
	if err := store.Load(a, d, in); err != nil {
		return nil, nil, nil, nil, err
	}
	return store, a, d, in, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
