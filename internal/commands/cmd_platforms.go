package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/printer"
	"github.com/colonyops/tracklog/pkg/iojson"
)

type PlatformsCmd struct {
	flags *Flags
	app   *App

	jsonOutput bool
}

// NewPlatformsCmd creates a new platforms command.
func NewPlatformsCmd(flags *Flags, app *App) *PlatformsCmd {
	return &PlatformsCmd{flags: flags, app: app}
}

// Register adds the platforms command to the application.
func (cmd *PlatformsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "platforms",
		Usage:     "List the platforms a game was released on",
		UsageText: "tracklog platforms [--json] <game-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as a JSON array",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *PlatformsCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one game id")
	}
	id := catalog.GameID(c.Args().First())

	platforms, err := cmd.app.Catalog.Platforms(ctx, id)
	if err != nil {
		return fmt.Errorf("platforms for %s: %w", id, err)
	}

	if cmd.jsonOutput {
		return iojson.WriteLine(c.Root().Writer, platforms)
	}

	p := printer.Ctx(ctx)
	if len(platforms) == 0 {
		p.Infof("No platforms listed for game %s", id)
		return nil
	}
	for _, name := range platforms {
		p.Printf("%s", name)
	}
	return nil
}
