package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// EntryIDCompleter returns a ShellCompleteFunc that suggests log entry ids,
// described by game name.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func EntryIDCompleter(app *App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Log == nil {
			return
		}
		entries, err := app.Log.List(ctx)
		if err != nil {
			return
		}

		for _, e := range entries {
			_, _ = fmt.Fprintf(cmd.Root().Writer, "%s:%s\n", e.ID, e.Name)
		}
	}
}
