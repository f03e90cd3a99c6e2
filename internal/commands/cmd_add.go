package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tracklog/internal/core/tracklog"
	"github.com/colonyops/tracklog/internal/printer"
	"github.com/colonyops/tracklog/internal/tui"
	"github.com/colonyops/tracklog/pkg/profiler"
)

type AddCmd struct {
	flags *Flags
	app   *App
}

// NewAddCmd creates the interactive add command.
func NewAddCmd(flags *Flags, app *App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Flags returns the TUI-specific flags for registration on the root command.
func (cmd *AddCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("TRACKLOG_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Register adds the add command to the application.
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Search the catalog and add a game to your log",
		UsageText: "tracklog add",
		Description: `Opens the search panel. Type to search the catalog, move with up/down,
press enter to pick a game and ctrl+s to save it to your log.

This is also what runs when tracklog is started without a command.`,
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *AddCmd) Run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	// Aborts any request still in flight when the TUI exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := cmd.app.Config
	deps := tui.Deps{
		Catalog:   cmd.app.Catalog,
		Store:     cmd.app.Log,
		BuildInfo: cmd.app.Build,
	}
	opts := tui.Opts{
		Context:   ctx,
		Debounce:  cfg.Search.Debounce,
		Platforms: cfg.Search.PlatformsEnabled(),
	}

	finalModel, err := tea.NewProgram(tui.New(deps, opts)).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	model := finalModel.(tui.Model)
	entry := model.Saved()
	if entry == nil {
		return nil
	}

	printSubmitted(printer.Ctx(ctx), *entry, model.SubmittedForm())
	return nil
}

func printSubmitted(p *printer.Printer, entry tracklog.Entry, form tracklog.Form) {
	p.Successf("Logged %s (%s)", entry.Name, entry.ID)
	values := form.Values()
	for _, field := range []string{tracklog.FieldID, tracklog.FieldImageURL, tracklog.FieldPlatform} {
		p.Printf("  %s=%s", field, values.Get(field))
	}
}
