// Package config handles sceneplay configuration loading and management.
package config

import "time"

// Config holds all sceneplay settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Scene      SceneConfig      `yaml:"scene"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds defaults for particle systems that leave settings out.
type SimulationConfig struct {
	Dt          float32 `yaml:"dt"`
	Restitution float32 `yaml:"restitution"`
	Collisions  bool    `yaml:"collisions"`
	MaxSubSteps int     `yaml:"max_substeps"`
}

// PlaybackConfig holds frame clock settings.
type PlaybackConfig struct {
	FPS         int           `yaml:"fps"`
	Duration    time.Duration `yaml:"duration"`     // 0 plays until interrupted
	Realtime    bool          `yaml:"realtime"`     // pace frames against the wall clock
	ReportEvery time.Duration `yaml:"report_every"` // 0 disables reports
	LoopScene   time.Duration `yaml:"loop_scene"`   // restart the scene after this long, 0 never
}

// SceneConfig holds the scene file settings.
type SceneConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Dt:          0.01,
			Restitution: 1,
			Collisions:  false,
			MaxSubSteps: 32,
		},
		Playback: PlaybackConfig{
			FPS:         60,
			Duration:    10 * time.Second,
			Realtime:    false,
			ReportEvery: time.Second,
		},
		Scene: SceneConfig{
			Path:  "scene.yaml",
			Watch: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
