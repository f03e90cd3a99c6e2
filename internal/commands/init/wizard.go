// Package initcmd implements the interactive first-run setup behind
// `tracklog init`.
package initcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/config"
	"github.com/colonyops/tracklog/internal/core/styles"
	"github.com/colonyops/tracklog/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool   // skip prompts, use defaults
	Force      bool   // overwrite existing config
	BaseURL    string // pre-specified catalog url (empty = prompt)
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// answers is the data bound to the huh form.
type answers struct {
	baseURL    string
	envelope   string
	debounceMs string
	platforms  bool
	theme      string
}

func defaultAnswers(baseURL string) answers {
	cfg := config.DefaultConfig()
	if baseURL == "" {
		baseURL = cfg.Catalog.BaseURL
	}
	return answers{
		baseURL:    baseURL,
		envelope:   string(cfg.Catalog.Envelope),
		debounceMs: strconv.FormatInt(cfg.Search.Debounce.Milliseconds(), 10),
		platforms:  cfg.Search.PlatformsEnabled(),
		theme:      cfg.TUI.Theme,
	}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	a := defaultAnswers(w.opts.BaseURL)
	if !w.opts.Yes {
		if err := w.prompt(&a); err != nil {
			return err
		}
	}

	cfg, err := a.config()
	if err != nil {
		return err
	}
	cfg.DataDir = w.opts.DataDir

	if err := cfg.ValidateDeep(""); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	if err := os.MkdirAll(filepath.Dir(w.opts.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := config.Save(w.opts.ConfigPath, cfg); err != nil {
		return err
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Run 'tracklog search <title>' to check the catalog at %s", cfg.Catalog.BaseURL)
	p.Printf("  2. Run 'tracklog' to add a game to your log")

	return nil
}

func (w *Wizard) prompt(a *answers) error {
	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Catalog URL").
				Description("Base URL of the game catalog backend").
				Value(&a.baseURL),
			huh.NewSelect[string]().
				Title("Search response shape").
				Options(
					huh.NewOption("bare array  [{...}]", string(catalog.EnvelopeArray)),
					huh.NewOption(`wrapped     {"results": [...]}`, string(catalog.EnvelopeResults)),
				).
				Value(&a.envelope),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Search delay (ms)").
				Description(fmt.Sprintf("Wait after the last keystroke, %d-%d", config.MinDebounce.Milliseconds(), config.MaxDebounce.Milliseconds())).
				Validate(validateDebounce).
				Value(&a.debounceMs),
			huh.NewConfirm().
				Title("Ask for a platform after picking a game?").
				Value(&a.platforms),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&a.theme),
		),
	)

	return form.Run()
}

func validateDebounce(s string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number of milliseconds")
	}
	d := time.Duration(ms) * time.Millisecond
	if d < config.MinDebounce || d > config.MaxDebounce {
		return fmt.Errorf("must be between %d and %d", config.MinDebounce.Milliseconds(), config.MaxDebounce.Milliseconds())
	}
	return nil
}

func (a answers) config() (config.Config, error) {
	if err := validateDebounce(a.debounceMs); err != nil {
		return config.Config{}, fmt.Errorf("search delay: %w", err)
	}
	ms, _ := strconv.Atoi(strings.TrimSpace(a.debounceMs))

	cfg := config.DefaultConfig()
	cfg.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(a.baseURL), "/")
	cfg.Catalog.Envelope = catalog.Envelope(a.envelope)
	cfg.Search.Debounce = time.Duration(ms) * time.Millisecond
	platforms := a.platforms
	cfg.Search.Platforms = &platforms
	cfg.TUI.Theme = a.theme
	return cfg, nil
}
