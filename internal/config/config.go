// Package config handles game configuration loading and management.
package config

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio"`
	Game     GameConfig     `yaml:"game" toml:"game"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`

	// Path is the file the config was read from, empty for pure defaults.
	Path string `yaml:"-" toml:"-"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width" toml:"width"`
	Height     int  `yaml:"height" toml:"height"`
	Fullscreen bool `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool `yaml:"vsync" toml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit" toml:"fps_limit"`

	// UI selects the frontend: "imgui" draws the score and welcome text
	// over the scene, "sdl" shows them in the window title only.
	UI string `yaml:"ui" toml:"ui"`
}

// AudioConfig holds audio settings. Theme and Effect are asset names
// (WAV or MP3) resolved against Assets.Root.
type AudioConfig struct {
	Theme        string  `yaml:"theme" toml:"theme"`
	Effect       string  `yaml:"effect" toml:"effect"`
	ThemeVolume  float64 `yaml:"theme_volume" toml:"theme_volume"`
	EffectVolume float64 `yaml:"effect_volume" toml:"effect_volume"`
	Muted        bool    `yaml:"muted" toml:"muted"`
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	InitialRocks int     `yaml:"initial_rocks" toml:"initial_rocks"` // Rocks created by a restart
	MinRocks     int     `yaml:"min_rocks" toml:"min_rocks"`         // Refill threshold after each pass
	ScoreRate    float64 `yaml:"score_rate" toml:"score_rate"`       // Score added per frame while playing
	BulletSpeed  float32 `yaml:"bullet_speed" toml:"bullet_speed"`
	Seed         int64   `yaml:"seed" toml:"seed"` // 0 picks a time-based seed

	// Bindings maps key names (as reported by SDL) to action names.
	Bindings map[string]string `yaml:"bindings" toml:"bindings"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	// Root is a directory or an http(s) base URL.
	Root   string `yaml:"root" toml:"root"`
	Cannon string `yaml:"cannon" toml:"cannon"`
	Wheel  string `yaml:"wheel" toml:"wheel"`
	Bullet string `yaml:"bullet" toml:"bullet"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Frontends accepted by GraphicsConfig.UI.
const (
	UIImGui = "imgui"
	UISDL   = "sdl"
)

// DefaultBindings returns the classic key layout.
func DefaultBindings() map[string]string {
	return map[string]string{
		"A": "move_left",
		"D": "move_right",
		"S": "stop",
		";": "shoot",
		"G": "start_game",
		"9": "add_rock",
		"B": "mute",
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1080,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
			UI:         UIImGui,
		},
		Audio: AudioConfig{
			Theme:        "theme.mp3",
			Effect:       "boing.mp3",
			ThemeVolume:  0.3,
			EffectVolume: 1.0,
			Muted:        false,
		},
		Game: GameConfig{
			InitialRocks: 2,
			MinRocks:     1,
			ScoreRate:    0.06,
			BulletSpeed:  25,
			Seed:         0,
			Bindings:     DefaultBindings(),
		},
		Assets: AssetsConfig{
			Root:   "assets",
			Cannon: "vase.obj",
			Wheel:  "wheel.obj",
			Bullet: "bullet.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
