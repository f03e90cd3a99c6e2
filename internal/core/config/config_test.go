package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tracklog/internal/core/catalog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "/tmp/tracklog")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tracklog", cfg.DataDir)
	assert.Equal(t, "http://localhost:5000", cfg.Catalog.BaseURL)
	assert.Equal(t, catalog.EnvelopeArray, cfg.Catalog.Envelope)
	assert.Equal(t, DefaultPlaceholderCover, cfg.Catalog.PlaceholderCover)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.True(t, cfg.Search.PlatformsEnabled())
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/data")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Catalog, cfg.Catalog)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  base_url: https://games.example.com/api
  envelope: results
  timeout: 3s
search:
  debounce: 250ms
  platforms: false
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "https://games.example.com/api", cfg.Catalog.BaseURL)
	assert.Equal(t, catalog.EnvelopeResults, cfg.Catalog.Envelope)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "search", cfg.Catalog.SearchPath, "unset keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
	assert.False(t, cfg.Search.PlatformsEnabled())
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "debounce too short",
			body:    "search:\n  debounce: 50ms\n",
			wantErr: "search.debounce",
		},
		{
			name:    "debounce too long",
			body:    "search:\n  debounce: 1s\n",
			wantErr: "search.debounce",
		},
		{
			name:    "unknown envelope",
			body:    "catalog:\n  envelope: xml\n",
			wantErr: "catalog.envelope",
		},
		{
			name:    "malformed yaml",
			body:    "catalog: [",
			wantErr: "parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), "/data")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Catalog.BaseURL = "https://catalog.example.com"
	disabled := false
	cfg.Search.Platforms = &disabled

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path, "/data")
	require.NoError(t, err)
	assert.Equal(t, "https://catalog.example.com", loaded.Catalog.BaseURL)
	assert.Equal(t, cfg.Search.Debounce, loaded.Search.Debounce)
	assert.False(t, loaded.Search.PlatformsEnabled())
}
