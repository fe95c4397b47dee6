package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working and config directories.
const FileName = "sceneplay.yaml"

// ErrInvalid is returned by Validate for settings the player cannot run with.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable zero value.
func (c *Config) Validate() error {
	switch {
	case !(c.Simulation.Dt > 0):
		return fmt.Errorf("simulation.dt %v must be positive: %w", c.Simulation.Dt, ErrInvalid)
	case !(c.Simulation.Restitution >= 0):
		return fmt.Errorf("simulation.restitution %v must not be negative: %w", c.Simulation.Restitution, ErrInvalid)
	case c.Simulation.MaxSubSteps < 0:
		return fmt.Errorf("simulation.max_substeps %d must not be negative: %w", c.Simulation.MaxSubSteps, ErrInvalid)
	case c.Playback.FPS <= 0:
		return fmt.Errorf("playback.fps %d must be positive: %w", c.Playback.FPS, ErrInvalid)
	case c.Playback.Duration < 0:
		return fmt.Errorf("playback.duration %v must not be negative: %w", c.Playback.Duration, ErrInvalid)
	case c.Scene.Path == "":
		return fmt.Errorf("scene.path is empty: %w", ErrInvalid)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Kinema")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Kinema")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "kinema")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "kinema")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
