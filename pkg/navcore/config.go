package navcore

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/navcore/pkg/navcore/constants"
)

// Config is the TOML configuration file. Pointer fields distinguish absent
// keys, which keep their defaults.
type Config struct {
	Navigation NavigationConfig `toml:"navigation"`
	Exit       ExitConfig       `toml:"exit"`
	Locale     LocaleConfig     `toml:"locale"`
	Log        LogConfig        `toml:"log"`
	Hardware   HardwareConfig   `toml:"hardware"`
}

type NavigationConfig struct {
	DefaultSection *string `toml:"default-section"`
	MaxDepth       *int    `toml:"max-depth"`
}

type ExitConfig struct {
	WindowMs *int `toml:"window-ms"`
}

type LocaleConfig struct {
	Lang *string `toml:"lang"`
}

type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// HardwareConfig names the Linux input device carrying the back key.
type HardwareConfig struct {
	Device  *string `toml:"device"`
	KeyCode *int    `toml:"key-code"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ParseConfig decodes a TOML document.
func ParseConfig(data string) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Options converts the file settings into Options. Capabilities (notifier,
// history, hardware source, terminate) are left for the caller to wire.
func (c Config) Options() (Options, error) {
	opts := Options{
		MaxDepth:   constants.DefaultMaxDepth,
		ExitWindow: constants.DefaultExitWindow,
		Locale:     constants.DefaultLocale,
	}

	if c.Navigation.DefaultSection != nil {
		section, err := ParseSection(*c.Navigation.DefaultSection)
		if err != nil {
			return Options{}, fmt.Errorf("navigation.default-section: %w", err)
		}
		opts.DefaultSection = section
	}
	if c.Navigation.MaxDepth != nil {
		if *c.Navigation.MaxDepth < 1 {
			return Options{}, fmt.Errorf("navigation.max-depth must be at least 1, got %d", *c.Navigation.MaxDepth)
		}
		opts.MaxDepth = *c.Navigation.MaxDepth
	}
	if c.Exit.WindowMs != nil {
		if *c.Exit.WindowMs <= 0 {
			return Options{}, fmt.Errorf("exit.window-ms must be positive, got %d", *c.Exit.WindowMs)
		}
		opts.ExitWindow = time.Duration(*c.Exit.WindowMs) * time.Millisecond
	}
	if c.Locale.Lang != nil {
		opts.Locale = *c.Locale.Lang
	}
	if c.Log.Level != nil {
		opts.LogLevel = *c.Log.Level
	}
	if c.Log.Path != nil {
		opts.LogPath = *c.Log.Path
	}
	return opts, nil
}

// HardwareDevice returns the configured back-key device, falling back to
// NAVCORE_BACK_DEVICE. Empty means no hardware source.
func (c Config) HardwareDevice() string {
	if c.Hardware.Device != nil && *c.Hardware.Device != "" {
		return *c.Hardware.Device
	}
	return os.Getenv(constants.HardwareDeviceEnvVar)
}

// HardwareKeyCode returns the configured back key code, KEY_BACK by default.
func (c Config) HardwareKeyCode() int {
	if c.Hardware.KeyCode != nil {
		return *c.Hardware.KeyCode
	}
	return constants.KeyBack
}
