package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func fieldNames(errs criterio.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_ReportsEveryField(t *testing.T) {
	cfg := validConfig(t)
	cfg.Catalog.BaseURL = "ftp://catalog"
	cfg.Catalog.Envelope = "xml"
	cfg.Search.Debounce = 10
	cfg.TUI.Theme = "neon"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	names := fieldNames(fieldErrs)
	assert.Contains(t, names, "catalog.base_url")
	assert.Contains(t, names, "catalog.envelope")
	assert.Contains(t, names, "search.debounce")
	assert.Contains(t, names, "tui.theme")
}

func TestValidateDeep_Paths(t *testing.T) {
	t.Run("empty search path", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Catalog.SearchPath = "/"

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
		assert.Equal(t, []string{"catalog.search_path"}, fieldNames(fieldErrs))
	})

	t.Run("placeholder must be http", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Catalog.PlaceholderCover = "nocover.png"

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
		assert.Equal(t, []string{"catalog.placeholder_cover"}, fieldNames(fieldErrs))
	})
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(t.TempDir()), &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.ValidateDeep(""), &fieldErrs)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_MissingConfigFileIsFine(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "missing.yaml")))
}
