package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/tracklog/internal/core/styles"
)

// ValidateDeep performs comprehensive validation of the configuration
// including URL syntax, theme names and file accessibility. The configPath
// argument specifies the config file location to validate (empty string
// skips the config file check). Unlike Validate, every invalid field is
// reported as a criterio.FieldErrors.
func (c *Config) ValidateDeep(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateCatalog(),
		c.validateSearch(),
		criterio.Run("tui.theme", c.TUI.Theme, themeExists),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func (c *Config) validateCatalog() error {
	var errs criterio.FieldErrorsBuilder

	if err := httpURL(c.Catalog.BaseURL); err != nil {
		errs = errs.Append("catalog.base_url", err)
	}
	if c.Catalog.PlaceholderCover != "" {
		if err := httpURL(c.Catalog.PlaceholderCover); err != nil {
			errs = errs.Append("catalog.placeholder_cover", err)
		}
	}
	if strings.Trim(c.Catalog.SearchPath, "/") == "" {
		errs = errs.Append("catalog.search_path", fmt.Errorf("cannot be empty"))
	}
	if strings.Trim(c.Catalog.PlatformsPath, "/") == "" {
		errs = errs.Append("catalog.platforms_path", fmt.Errorf("cannot be empty"))
	}
	if !c.Catalog.Envelope.Valid() {
		errs = errs.Append("catalog.envelope", fmt.Errorf("unknown envelope %q (want array or results)", c.Catalog.Envelope))
	}
	if c.Catalog.Timeout < 0 {
		errs = errs.Append("catalog.timeout", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

func (c *Config) validateSearch() error {
	var errs criterio.FieldErrorsBuilder
	if d := c.Search.Debounce; d < MinDebounce || d > MaxDebounce {
		errs = errs.Append("search.debounce", fmt.Errorf("%s is outside %s..%s", d, MinDebounce, MaxDebounce))
	}
	return errs.ToError()
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https url", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
