// Package config handles configuration loading and validation for tracklog.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/tracklog/internal/core/catalog"
)

// Debounce bounds accepted for search.debounce.
const (
	MinDebounce = 200 * time.Millisecond
	MaxDebounce = 400 * time.Millisecond
)

// DefaultPlaceholderCover is shown for games the catalog has no cover for.
const DefaultPlaceholderCover = "https://images.igdb.com/igdb/image/upload/t_thumb/nocover_qhhlj6.jpg"

// Config holds the application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	TUI     TUIConfig     `yaml:"tui"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// CatalogConfig describes the game-catalog backend.
type CatalogConfig struct {
	BaseURL          string           `yaml:"base_url"`
	SearchPath       string           `yaml:"search_path"`
	PlatformsPath    string           `yaml:"platforms_path"`
	Envelope         catalog.Envelope `yaml:"envelope"`          // array or results
	PlaceholderCover string           `yaml:"placeholder_cover"` // used when a game has no cover
	Timeout          time.Duration    `yaml:"timeout"`
}

// SearchConfig tunes the search panel.
type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	// Platforms enables the platform lookup after a game is selected.
	// nil means enabled.
	Platforms *bool `yaml:"platforms"`
}

// PlatformsEnabled reports whether the platform lookup is on.
func (s SearchConfig) PlatformsEnabled() bool {
	return s.Platforms == nil || *s.Platforms
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			BaseURL:          "http://localhost:5000",
			SearchPath:       "search",
			PlatformsPath:    "platforms",
			Envelope:         catalog.EnvelopeArray,
			PlaceholderCover: DefaultPlaceholderCover,
			Timeout:          10 * time.Second,
		},
		Search: SearchConfig{
			Debounce: 300 * time.Millisecond,
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg as YAML to path, creating or truncating the file.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaults.Catalog.BaseURL
	}
	if c.Catalog.SearchPath == "" {
		c.Catalog.SearchPath = defaults.Catalog.SearchPath
	}
	if c.Catalog.PlatformsPath == "" {
		c.Catalog.PlatformsPath = defaults.Catalog.PlatformsPath
	}
	if c.Catalog.Envelope == "" {
		c.Catalog.Envelope = defaults.Catalog.Envelope
	}
	if c.Catalog.PlaceholderCover == "" {
		c.Catalog.PlaceholderCover = defaults.Catalog.PlaceholderCover
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = defaults.Catalog.Timeout
	}
	if c.Search.Debounce == 0 {
		c.Search.Debounce = defaults.Search.Debounce
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url cannot be empty")
	}

	if !c.Catalog.Envelope.Valid() {
		return fmt.Errorf("catalog.envelope %q must be one of: array, results", c.Catalog.Envelope)
	}

	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must not be negative")
	}

	if c.Search.Debounce < MinDebounce || c.Search.Debounce > MaxDebounce {
		return fmt.Errorf("search.debounce must be between %s and %s, got %s", MinDebounce, MaxDebounce, c.Search.Debounce)
	}

	return nil
}
