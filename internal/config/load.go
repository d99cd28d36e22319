package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Explicit path takes priority
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}
	return LoadFrom(configPath)
}

// LoadFrom builds a config from defaults, the file at path (skipped when
// path is empty) and the CLI flags.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.Path = path
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.toml",
		filepath.Join(ConfigDir(), "config.yaml"),
		filepath.Join(ConfigDir(), "config.toml"),
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
		return filepath.Join(home, "Library", "Application Support", "RockBlast")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "RockBlast")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rockblast")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "rockblast")
	}
}

// isTOML reports whether path names a TOML file; everything else is YAML.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// loadFromFile loads config from a YAML or TOML file, merging with existing
// values. A bindings section replaces the default bindings as a whole.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	unmarshal := yaml.Unmarshal
	if isTOML(path) {
		unmarshal = toml.Unmarshal
	}

	var section struct {
		Game struct {
			Bindings map[string]string `yaml:"bindings" toml:"bindings"`
		} `yaml:"game" toml:"game"`
	}
	if err := unmarshal(data, &section); err != nil {
		return err
	}
	if section.Game.Bindings != nil {
		cfg.Game.Bindings = nil
	}
	return unmarshal(data, cfg)
}

// Validate checks values the game cannot run with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Graphics.Width, c.Graphics.Height)
	}
	if c.Game.MinRocks < 1 {
		return fmt.Errorf("%w: min_rocks must be at least 1, got %d", ErrInvalidConfig, c.Game.MinRocks)
	}
	if c.Game.InitialRocks < c.Game.MinRocks {
		return fmt.Errorf("%w: initial_rocks (%d) below min_rocks (%d)", ErrInvalidConfig, c.Game.InitialRocks, c.Game.MinRocks)
	}
	if c.Game.BulletSpeed <= 0 {
		return fmt.Errorf("%w: bullet_speed must be positive", ErrInvalidConfig)
	}
	if c.Graphics.UI != UIImGui && c.Graphics.UI != UISDL {
		return fmt.Errorf("%w: ui must be %q or %q, got %q", ErrInvalidConfig, UIImGui, UISDL, c.Graphics.UI)
	}
	if !bindsStart(c.Game.Bindings) {
		return fmt.Errorf("%w: no key bound to start_game", ErrInvalidConfig)
	}
	for _, v := range []float64{c.Audio.ThemeVolume, c.Audio.EffectVolume} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: volume %v outside [0, 1]", ErrInvalidConfig, v)
		}
	}
	return nil
}

// bindsStart reports whether some key starts a round. Action names are
// matched the way the game parses them.
func bindsStart(bindings map[string]string) bool {
	for key, action := range bindings {
		if strings.TrimSpace(key) != "" && strings.EqualFold(strings.TrimSpace(action), "start_game") {
			return true
		}
	}
	return false
}
