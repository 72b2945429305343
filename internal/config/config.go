// Package config handles editor configuration loading and management.
package config

import (
	"math"
	"time"
)

// Config holds all editor settings.
type Config struct {
	Graphics    GraphicsConfig   `yaml:"graphics"`
	Camera      CameraConfig     `yaml:"camera"`
	Input       InputConfig      `yaml:"input"`
	Scene       SceneConfig      `yaml:"scene"`
	Shaders     ShaderConfig     `yaml:"shaders"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds window and rendering settings.
type GraphicsConfig struct {
	Backend    string     `yaml:"backend"` // "sdl" or "glfw"
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"` // 0 disables pacing
	Samples    int        `yaml:"samples"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// CameraConfig holds the free-fly camera settings.
type CameraConfig struct {
	FOV        float32     `yaml:"fov"` // degrees
	Near       float32     `yaml:"near"`
	Far        float32     `yaml:"far"`
	MoveSpeed  float32     `yaml:"move_speed"`  // world units per second
	MouseSpeed float32     `yaml:"mouse_speed"` // radians per pixel
	Position   [3]float32  `yaml:"position"`
	Horizontal float32     `yaml:"horizontal"` // radians
	Vertical   float32     `yaml:"vertical"`   // radians
	LookAt     *[3]float32 `yaml:"look_at"`    // overrides the angles when set
}

// InputConfig holds key binding settings.
type InputConfig struct {
	ToggleCooldown time.Duration `yaml:"toggle_cooldown"`
	// Bindings maps "key/action" (e.g. "w/hold") to a command name.
	// Entries override the built-in defaults.
	Bindings map[string]string `yaml:"bindings"`
}

// SceneConfig lists the models placed in the world at startup.
type SceneConfig struct {
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig places one model file in the world.
type ModelConfig struct {
	Path     string     `yaml:"path"`
	Position [3]float32 `yaml:"position"`
}

// ShaderConfig holds shader source paths. Empty paths use the built-in shaders.
type ShaderConfig struct {
	Vertex    string `yaml:"vertex"`
	Fragment  string `yaml:"fragment"`
	HotReload bool   `yaml:"hot_reload"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"` // enables the debug stream
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Backend:    "sdl",
			Title:      "Untitled Mapping Tool V0.0.1",
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      false,
			FPSLimit:   60,
			Samples:    4,
			ClearColor: [4]float32{0, 0, 0.4, 0},
		},
		Camera: CameraConfig{
			FOV:        45,
			Near:       0.1,
			Far:        100,
			MoveSpeed:  3.0,
			MouseSpeed: 0.005,
			Position:   [3]float32{0, 0, 5},
			Horizontal: math.Pi,
			Vertical:   0,
		},
		Input: InputConfig{
			ToggleCooldown: time.Second,
		},
		Shaders: ShaderConfig{
			HotReload: true,
		},
		Screenshots: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "mappingtool",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Debug:   false,
		},
	}
}
