// Package config handles apitop's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Sensitivity bounds for the anomaly sensitivity parameter k. The
// value is pass-through configuration for the backend-side detector;
// apitop only stores, clamps, and displays it.
const (
	MinSensitivity     = 0.5
	MaxSensitivity     = 3.0
	DefaultSensitivity = 1.5
)

// Config holds all apitop configuration.
type Config struct {
	Backend    BackendConfig    `toml:"backend"`
	Monitor    MonitorConfig    `toml:"monitor"`
	Burst      BurstConfig      `toml:"burst"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// BackendConfig holds the metrics API endpoint settings.
type BackendConfig struct {
	URL        string `toml:"url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// MonitorConfig holds polling and anomaly display settings.
type MonitorConfig struct {
	RefreshIntervalSec int     `toml:"refresh_interval_sec"`
	Sensitivity        float64 `toml:"sensitivity"`
	LiveStream         bool    `toml:"live_stream"`
}

// BurstConfig holds synthetic log burst settings.
type BurstConfig struct {
	Size int `toml:"size"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:        "http://localhost:8000",
			TimeoutSec: 3,
		},
		Monitor: MonitorConfig{
			RefreshIntervalSec: 5,
			Sensitivity:        DefaultSensitivity,
			LiveStream:         true,
		},
		Burst: BurstConfig{
			Size: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ClampSensitivity forces k into the valid [0.5, 3.0] range.
func ClampSensitivity(k float64) float64 {
	if k < MinSensitivity {
		return MinSensitivity
	}
	if k > MaxSensitivity {
		return MaxSensitivity
	}
	return k
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "apitop")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "apitop")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Out-of-range sensitivity values are clamped on load.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Monitor.Sensitivity = ClampSensitivity(cfg.Monitor.Sensitivity)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// BackendURL returns the backend URL from env var or config, in that
// order.
func BackendURL(cfg Config) string {
	if url := os.Getenv("APITOP_BACKEND_URL"); url != "" {
		return url
	}
	return cfg.Backend.URL
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
