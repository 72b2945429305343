package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable the debug output stream")
	flagBackend    = flag.String("backend", "", "Window backend (sdl or glfw)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagFPS        = flag.Int("fps", -1, "Frame rate limit (0 disables pacing)")
	flagModel      = flag.String("model", "", "Model file to place at the origin")
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
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Debug = true
	}
	if *flagBackend != "" {
		cfg.Graphics.Backend = *flagBackend
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagFPS >= 0 {
		cfg.Graphics.FPSLimit = *flagFPS
	}
	if *flagModel != "" {
		cfg.Scene.Models = append(cfg.Scene.Models, ModelConfig{Path: *flagModel})
	}
}
