package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports settings that cannot be used to start the editor.
func (c *Config) Validate() error {
	switch c.Graphics.Backend {
	case "sdl", "glfw":
	default:
		return fmt.Errorf("unknown window backend %q", c.Graphics.Backend)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Input.ToggleCooldown < 0 {
		return fmt.Errorf("negative toggle cooldown %v", c.Input.ToggleCooldown)
	}
	return nil
}

// expandPaths resolves a leading ~ in every user supplied path.
func (c *Config) expandPaths() error {
	paths := []*string{
		&c.Shaders.Vertex,
		&c.Shaders.Fragment,
		&c.Screenshots.Dir,
		&c.Logging.LogFile,
	}
	for i := range c.Scene.Models {
		paths = append(paths, &c.Scene.Models[i].Path)
	}
	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
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
		home, _ := homedir.Dir()
		return filepath.Join(home, "Library", "Application Support", "MappingTool")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MappingTool")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "mappingtool")
		}
		home, _ := homedir.Dir()
		return filepath.Join(home, ".config", "mappingtool")
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
