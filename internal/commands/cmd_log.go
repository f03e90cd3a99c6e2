package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tracklog/internal/core/tracklog"
	"github.com/colonyops/tracklog/internal/printer"
	"github.com/colonyops/tracklog/pkg/iojson"
)

type LogCmd struct {
	flags *Flags
	app   *App

	// flags
	jsonOutput bool
	fr         *iojson.FileReader[tracklog.Entry]
}

// NewLogCmd creates the log command group.
func NewLogCmd(flags *Flags, app *App) *LogCmd {
	return &LogCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[tracklog.Entry]{},
	}
}

// Register adds the log commands to the application.
func (cmd *LogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "log",
		Usage: "Inspect and manage your game log",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List logged games, newest first",
				UsageText: "tracklog log ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:          "rm",
				Usage:         "Remove entries from the log",
				UsageText:     "tracklog log rm <id>...",
				ShellComplete: EntryIDCompleter(cmd.app),
				Action:        cmd.runRemove,
			},
			{
				Name:      "import",
				Usage:     "Import entries from JSON",
				UsageText: "tracklog log import [-f entries.json]",
				Description: `Reads a JSON array of entries, or JSON lines as written by
'tracklog log ls --json', from a file or stdin. Entries whose id already
exists are skipped.`,
				Flags:  []cli.Flag{cmd.fr.Flag()},
				Action: cmd.runImport,
			},
		},
	})

	return app
}

func (cmd *LogCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.app.Log.List(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("Your log is empty. Run 'tracklog' to add a game.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tGAME\tPLATFORM\tADDED")
	for _, e := range entries {
		platform := e.Platform
		if platform == "" {
			platform = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Name, platform, e.CreatedAt.Local().Format("2006-01-02"))
	}
	return w.Flush()
}

func (cmd *LogCmd) runRemove(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one entry id is required")
	}

	p := printer.Ctx(ctx)
	var errs []error
	for _, id := range ids {
		err := cmd.app.Log.Delete(ctx, id)
		switch {
		case errors.Is(err, tracklog.ErrNotFound):
			p.Warnf("No entry with id %s", id)
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		case err != nil:
			return err
		default:
			p.Successf("Removed %s", id)
		}
	}

	return errors.Join(errs...)
}

func (cmd *LogCmd) runImport(ctx context.Context, _ *cli.Command) error {
	entries, err := cmd.fr.ReadAll()
	if err != nil {
		return err
	}

	for i, e := range entries {
		if e.GameID == "" || e.Name == "" {
			return fmt.Errorf("entry %d: game_id and name are required", i+1)
		}
	}

	n, err := cmd.app.Log.Import(ctx, entries)
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	p.Successf("Imported %d of %d entries", n, len(entries))
	if skipped := len(entries) - n; skipped > 0 {
		p.Infof("%d already in the log", skipped)
	}
	return nil
}
