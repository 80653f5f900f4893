// Package config loads the engine configuration from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Engine is the top-level engine configuration.
type Engine struct {
	Window   WindowConfig  `yaml:"window"`
	TickRate int           `yaml:"tick_rate"`
	LogLevel string        `yaml:"log_level"`
	Settings SettingsPaths `yaml:"settings"`
	Storage  StorageConfig `yaml:"storage"`
	Debug    bool          `yaml:"debug"`
}

// WindowConfig describes the initial window. Width and Height are the
// resolution used until the display settings store one.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// SettingsPaths locates the XML settings files.
type SettingsPaths struct {
	Dir string `yaml:"dir"`
}

// StorageConfig locates the snapshot database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Engine {
	return Engine{
		Window: WindowConfig{
			Title:     "ducttape",
			Width:     1024,
			Height:    768,
			Resizable: true,
		},
		TickRate: 60,
		LogLevel: "info",
		Settings: SettingsPaths{Dir: "~/.ducttape/settings"},
		Storage:  StorageConfig{Path: "~/.ducttape/saves.db"},
	}
}

// Load loads the engine configuration.
// Search order: customPath -> ~/.ducttape/engine.yaml -> ./configs/engine.yaml -> embedded default
func Load(customPath string) (Engine, error) {
	// Custom path must exist and parse
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Engine{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Engine{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if p := userConfigPath("engine.yaml"); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "engine.yaml")); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parse(defaultEngineYAML)
	if err != nil {
		return Default(), nil
	}
	return cfg, nil
}

// parse decodes YAML over the defaults, so omitted keys keep default values.
func parse(data []byte) (Engine, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Engine{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (e Engine) Validate() error {
	if e.Window.Width <= 0 || e.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", e.Window.Width, e.Window.Height)
	}
	if e.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", e.TickRate)
	}
	if _, err := log.ParseLevel(e.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the parsed log level, or info if it is invalid.
func (e Engine) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(e.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ducttape", filename)
}
