package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tracklog/internal/commands"
	"github.com/colonyops/tracklog/internal/core/config"
	"github.com/colonyops/tracklog/internal/core/logging"
	"github.com/colonyops/tracklog/internal/core/styles"
	"github.com/colonyops/tracklog/internal/data/db"
	"github.com/colonyops/tracklog/internal/data/stores"
	"github.com/colonyops/tracklog/internal/integration/catalogapi"
	"github.com/colonyops/tracklog/internal/printer"
	"github.com/colonyops/tracklog/internal/tui"
	"github.com/colonyops/tracklog/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
		app       = &commands.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "tracklog",
		Usage:     "Keep a log of the games you play",
		UsageText: "tracklog [global options] command [command options]",
		Description: `tracklog searches a game catalog as you type and records the games you
pick in a local log.

Run 'tracklog' with no arguments to open the search panel.
Run 'tracklog init' to point it at your catalog.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TRACKLOG_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("TRACKLOG_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TRACKLOG_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TRACKLOG_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// The TUI owns the terminal, so logs always go to a file.
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			ctx = printer.NewContext(ctx, printer.New(c.Root().Writer, c.Root().ErrWriter))

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (unknown names keep the default)
			if palette, ok := styles.GetPalette(cfg.TUI.Theme); ok {
				styles.SetTheme(palette)
			} else {
				log.Warn().Str("theme", cfg.TUI.Theme).Msg("unknown theme, using default")
			}

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = openDatabase(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			client, err := catalogapi.New(catalogapi.Options{
				BaseURL:       cfg.Catalog.BaseURL,
				SearchPath:    cfg.Catalog.SearchPath,
				PlatformsPath: cfg.Catalog.PlatformsPath,
				Envelope:      cfg.Catalog.Envelope,
				Placeholder:   cfg.Catalog.PlaceholderCover,
				Timeout:       cfg.Catalog.Timeout,
			})
			if err != nil {
				return ctx, fmt.Errorf("create catalog client: %w", err)
			}

			// Populate the pre-allocated App (commands already hold a pointer to it)
			*app = commands.App{
				Config:  cfg,
				Catalog: client,
				Log:     stores.NewLogStore(database),
				Build: tui.BuildInfo{
					Version: version,
					Commit:  commit,
					Date:    date,
				},
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	addCmd := commands.NewAddCmd(flags, app)

	root = addCmd.Register(root)
	root = commands.NewSearchCmd(flags, app).Register(root)
	root = commands.NewPlatformsCmd(flags, app).Register(root)
	root = commands.NewLogCmd(flags, app).Register(root)
	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewDevServerCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, addCmd.Flags()...)

	// Open the search panel when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'tracklog --help' for usage", c.Args().First())
		}
		return addCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

// openDatabase opens the log database, moving a corrupt file aside and
// starting fresh when SQLite rejects it.
func openDatabase(dataDir string) (*db.DB, error) {
	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, rerr := stores.RecoverFromCorruption(dataDir)
	if rerr != nil {
		return nil, fmt.Errorf("%w (recovery failed: %v)", err, rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupt, starting a new log")

	return db.Open(dataDir, db.DefaultOpenOptions())
}
