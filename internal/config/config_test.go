package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func resetFlags() {
	*flagConfig = ""
	*flagScene = ""
	*flagDebug = false
	*flagDuration = -1
	*flagFPS = 0
	*flagWatch = false
	*flagRealtime = false
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test simulation defaults
	if cfg.Simulation.Dt != 0.01 {
		t.Errorf("expected dt 0.01, got %f", cfg.Simulation.Dt)
	}
	if cfg.Simulation.Restitution != 1 {
		t.Errorf("expected restitution 1, got %f", cfg.Simulation.Restitution)
	}
	if cfg.Simulation.Collisions {
		t.Error("expected collisions to be disabled by default")
	}
	if cfg.Simulation.MaxSubSteps != 32 {
		t.Errorf("expected max substeps 32, got %d", cfg.Simulation.MaxSubSteps)
	}

	// Test playback defaults
	if cfg.Playback.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.Playback.FPS)
	}
	if cfg.Playback.Duration != 10*time.Second {
		t.Errorf("expected duration 10s, got %v", cfg.Playback.Duration)
	}
	if cfg.Playback.Realtime {
		t.Error("expected realtime to be false by default")
	}
	if cfg.Playback.LoopScene != 0 {
		t.Errorf("expected no scene loop, got %v", cfg.Playback.LoopScene)
	}

	// Test scene and logging defaults
	if cfg.Scene.Path != "scene.yaml" {
		t.Errorf("expected scene path 'scene.yaml', got %s", cfg.Scene.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
simulation:
  dt: 0.005
  restitution: 0.7
  collisions: true
  max_substeps: 8

playback:
  fps: 30
  duration: 2m
  realtime: true
  report_every: 500ms
  loop_scene: 20s

scene:
  path: "levels/bounce.toml"
  watch: true

logging:
  level: "debug"
  log_file: "sceneplay.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Simulation.Dt != 0.005 {
		t.Errorf("expected dt 0.005, got %f", cfg.Simulation.Dt)
	}
	if cfg.Simulation.Restitution != 0.7 {
		t.Errorf("expected restitution 0.7, got %f", cfg.Simulation.Restitution)
	}
	if !cfg.Simulation.Collisions {
		t.Error("expected collisions to be enabled")
	}
	if cfg.Simulation.MaxSubSteps != 8 {
		t.Errorf("expected max substeps 8, got %d", cfg.Simulation.MaxSubSteps)
	}

	if cfg.Playback.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.Playback.FPS)
	}
	if cfg.Playback.Duration != 2*time.Minute {
		t.Errorf("expected duration 2m, got %v", cfg.Playback.Duration)
	}
	if !cfg.Playback.Realtime {
		t.Error("expected realtime to be true")
	}
	if cfg.Playback.ReportEvery != 500*time.Millisecond {
		t.Errorf("expected report every 500ms, got %v", cfg.Playback.ReportEvery)
	}
	if cfg.Playback.LoopScene != 20*time.Second {
		t.Errorf("expected loop 20s, got %v", cfg.Playback.LoopScene)
	}

	if cfg.Scene.Path != "levels/bounce.toml" {
		t.Errorf("expected scene path levels/bounce.toml, got %s", cfg.Scene.Path)
	}
	if !cfg.Scene.Watch {
		t.Error("expected watch to be true")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sceneplay.log" {
		t.Errorf("expected log file 'sceneplay.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte("playback:\n  fps: 120\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Playback.FPS != 120 {
		t.Errorf("expected fps 120, got %d", cfg.Playback.FPS)
	}
	// Untouched keys keep their defaults
	if cfg.Playback.Duration != 10*time.Second {
		t.Errorf("expected default duration, got %v", cfg.Playback.Duration)
	}
	if cfg.Simulation.Dt != 0.01 {
		t.Errorf("expected default dt, got %f", cfg.Simulation.Dt)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
playback:
  fps: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/sceneplay.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Simulation.Dt = 0 }},
		{"negative restitution", func(c *Config) { c.Simulation.Restitution = -1 }},
		{"negative substeps", func(c *Config) { c.Simulation.MaxSubSteps = -1 }},
		{"zero fps", func(c *Config) { c.Playback.FPS = 0 }},
		{"negative duration", func(c *Config) { c.Playback.Duration = -time.Second }},
		{"empty scene path", func(c *Config) { c.Scene.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("playback:\n  fps: 24\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		setup  func()
		verify func(*testing.T, *Config)
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name:  "scene flag",
			setup: func() { *flagScene = "orbit.toml" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Path != "orbit.toml" {
					t.Errorf("expected scene orbit.toml, got %s", cfg.Scene.Path)
				}
			},
		},
		{
			name:  "duration flag",
			setup: func() { *flagDuration = 3 * time.Second },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Playback.Duration != 3*time.Second {
					t.Errorf("expected duration 3s, got %v", cfg.Playback.Duration)
				}
			},
		},
		{
			name:  "zero duration plays forever",
			setup: func() { *flagDuration = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Playback.Duration != 0 {
					t.Errorf("expected duration 0, got %v", cfg.Playback.Duration)
				}
			},
		},
		{
			name:  "unset duration keeps default",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Playback.Duration != 10*time.Second {
					t.Errorf("expected default duration, got %v", cfg.Playback.Duration)
				}
			},
		},
		{
			name:  "fps flag",
			setup: func() { *flagFPS = 144 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Playback.FPS != 144 {
					t.Errorf("expected fps 144, got %d", cfg.Playback.FPS)
				}
			},
		},
		{
			name: "watch and realtime flags",
			setup: func() {
				*flagWatch = true
				*flagRealtime = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Scene.Watch {
					t.Error("expected watch to be enabled")
				}
				if !cfg.Playback.Realtime {
					t.Error("expected realtime to be enabled")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer resetFlags()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
playback:
  fps: 50
  duration: 4s
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagFPS = 25
	defer resetFlags()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// FPS should be from flag (25), not file (50)
	if cfg.Playback.FPS != 25 {
		t.Errorf("expected fps 25 from flag, got %d", cfg.Playback.FPS)
	}

	// Duration should be from file since no flag override
	if cfg.Playback.Duration != 4*time.Second {
		t.Errorf("expected duration 4s from file, got %v", cfg.Playback.Duration)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("simulation:\n  dt: -0.1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer resetFlags()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Playback.FPS = 90
	cfg.Scene.Path = "rain.yaml"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Playback.FPS != 90 {
		t.Errorf("expected fps 90, got %d", loaded.Playback.FPS)
	}
	if loaded.Scene.Path != "rain.yaml" {
		t.Errorf("expected scene path rain.yaml, got %s", loaded.Scene.Path)
	}
}
