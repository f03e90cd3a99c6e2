package initcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/config"
	"github.com/colonyops/tracklog/internal/printer"
)

func runWizard(t *testing.T, opts WizardOptions) (string, error) {
	t.Helper()
	var out bytes.Buffer
	ctx := printer.NewContext(context.Background(), printer.New(&out, &out))
	err := NewWizard(opts).Run(ctx)
	return out.String(), err
}

func TestWizard_YesWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracklog", "config.yaml")

	out, err := runWizard(t, WizardOptions{
		ConfigPath: path,
		DataDir:    dir,
		Yes:        true,
		BaseURL:    "https://games.example.com/",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Created config")

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "https://games.example.com", cfg.Catalog.BaseURL)
	assert.Equal(t, catalog.EnvelopeArray, cfg.Catalog.Envelope)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.True(t, cfg.Search.PlatformsEnabled())
}

func TestWizard_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: gruvbox\n"), 0o644))

	t.Run("refuses without force", func(t *testing.T) {
		_, err := runWizard(t, WizardOptions{ConfigPath: path, DataDir: dir, Yes: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
	})

	t.Run("force backs up", func(t *testing.T) {
		out, err := runWizard(t, WizardOptions{ConfigPath: path, DataDir: dir, Yes: true, Force: true})
		require.NoError(t, err)
		assert.Contains(t, out, "Backed up config")

		backup, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Contains(t, string(backup), "gruvbox")
	})
}

func TestValidateDebounce(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"300", false},
		{" 200 ", false},
		{"400", false},
		{"199", true},
		{"401", true},
		{"fast", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateDebounce(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBackupConfig_Missing(t *testing.T) {
	backup, err := BackupConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, backup)
}
