package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagScene    = flag.String("scene", "", "Path to scene file (.yaml, .yml or .toml)")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagDuration = flag.Duration("duration", -1, "Playback duration, 0 plays until interrupted")
	flagFPS      = flag.Int("fps", 0, "Frames per second")
	flagWatch    = flag.Bool("watch", false, "Reload the scene when its file changes")
	flagRealtime = flag.Bool("realtime", false, "Pace frames against the wall clock")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDuration >= 0 {
		cfg.Playback.Duration = *flagDuration
	}
	if *flagFPS > 0 {
		cfg.Playback.FPS = *flagFPS
	}
	if *flagWatch {
		cfg.Scene.Watch = true
	}
	if *flagRealtime {
		cfg.Playback.Realtime = true
	}
}

