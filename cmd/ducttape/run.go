package main

import (
	"github.com/spf13/cobra"

	"github.com/ducttape-dev/ducttape"
	"github.com/ducttape-dev/ducttape/storage"
)

var flagMute bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the demo scene",
	Long: `Open the demo scene in a window.

Controls:
  WASD / Space   - Move and jump (rebind with 'ducttape settings set')
  Mouse          - Look around
  Left click     - Push the crate in front of you
  F5 / F9        - Quicksave / quickload
  Esc            - Quit

Examples:
  ducttape run
  ducttape run --mute --log-level debug`,
	Run: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagMute, "mute", false, "do not open the audio device")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	_, audioCfg, displayCfg, inputCfg, err := loadSettings(cfg)
	if err != nil {
		fail("loading settings: %v", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("opening snapshot database: %v", err)
	}
	defer store.Close()

	opts := []ducttape.EngineOption{
		ducttape.WithLogger(ducttape.Logger()),
		ducttape.WithSettings(audioCfg, displayCfg, inputCfg),
		ducttape.WithTickRate(cfg.TickRate),
	}
	if flagMute {
		opts = append(opts, ducttape.WithSilentAudio())
	}
	e := ducttape.NewEngine(opts...)

	if err := loadDemoSounds(e.Audio()); err != nil {
		fail("generating sounds: %v", err)
	}
	scene := buildDemoScene()
	e.AddScene(scene)
	e.AddFrameListener(&demoControls{engine: e, scene: scene, store: store})

	err = ducttape.Run(e, ducttape.RunConfig{
		Title:     cfg.Window.Title,
		Resizable: cfg.Window.Resizable,
		Debug:     cfg.Debug,
	})
	if err != nil {
		fail("%v", err)
	}
}
