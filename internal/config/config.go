// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for lumiere.
//
// Configuration sources, in order of precedence:
//   - Environment variables (LUMIERE_API_KEY, GEMINI_API_KEY)
//   - ~/.lumiere/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lumiere configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig contains Gemini API configuration.
type APIConfig struct {
	// Key is the Gemini API key. Overridden by LUMIERE_API_KEY or
	// GEMINI_API_KEY when set.
	Key string `toml:"key"`
	// Model is the default text model.
	Model string `toml:"model"`
	// VideoInputModel handles requests with video attachments.
	VideoInputModel string `toml:"video_input_model"`
	// VideoGenModel renders videos in motion mode.
	VideoGenModel string `toml:"video_gen_model"`
	// RequestsPerMinute caps outbound request rate.
	RequestsPerMinute int `toml:"requests_per_minute"`
	// VideoPollSecs is the interval between video render status checks.
	VideoPollSecs int `toml:"video_poll_secs"`
}

// StorageConfig contains session persistence configuration.
type StorageConfig struct {
	// Backend selects the storage slot: "file" or "sqlite".
	Backend string `toml:"backend"`
	// Path overrides the default storage location.
	Path string `toml:"path"`
}

// UIConfig contains interface configuration.
type UIConfig struct {
	// Language is the interface language code ("en", "es", "fr", "hi", "zh").
	Language string `toml:"language"`
	// Mode is the persona mode to start in.
	Mode string `toml:"mode"`
	// ShowSidebar opens the session sidebar on startup.
	ShowSidebar bool `toml:"show_sidebar"`
}

// LoggingConfig contains log output configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level"`
	// Path overrides the default log file location.
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Model:             "gemini-2.5-flash",
			VideoInputModel:   "gemini-3-pro-preview",
			VideoGenModel:     "veo-3.1-fast-generate-preview",
			RequestsPerMinute: 30,
			VideoPollSecs:     5,
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		UI: UIConfig{
			Language:    model.DefaultLanguage,
			Mode:        model.DefaultMode.String(),
			ShowSidebar: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the lumiere configuration directory (~/.lumiere).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".lumiere"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from the default path, applies environment
// overrides, and validates. A missing config file is not an error.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if key := os.Getenv("LUMIERE_API_KEY"); key != "" {
		c.API.Key = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.API.Key == "" {
		c.API.Key = key
	}
	if lang := os.Getenv("LUMIERE_LANGUAGE"); lang != "" {
		c.UI.Language = lang
	}
}

// Validate checks the configuration for unusable values and normalizes the
// ones that have a sane interpretation.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q (want \"file\" or \"sqlite\")", c.Storage.Backend)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if !model.Mode(c.UI.Mode).IsValid() {
		c.UI.Mode = model.DefaultMode.String()
	}
	c.UI.Language = model.NormalizeLanguage(c.UI.Language)
	if c.API.RequestsPerMinute < 0 {
		c.API.RequestsPerMinute = 0
	}
	return nil
}

// VideoPollInterval returns the render polling interval as a duration.
func (c *Config) VideoPollInterval() time.Duration {
	if c.API.VideoPollSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.API.VideoPollSecs) * time.Second
}

// StoragePath resolves the storage slot location for the configured backend.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(dir, "lumiere.db"), nil
	}
	return filepath.Join(dir, "sessions.json"), nil
}

// LogPath resolves the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lumiere.log"), nil
}

// Save writes the configuration to the given path atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
