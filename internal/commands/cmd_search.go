package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/pkg/iojson"
)

// maxConcurrentSearches bounds parallel catalog requests for one invocation.
const maxConcurrentSearches = 4

type SearchCmd struct {
	flags *Flags
	app   *App

	// flags
	jsonOutput bool
}

// NewSearchCmd creates a new search command.
func NewSearchCmd(flags *Flags, app *App) *SearchCmd {
	return &SearchCmd{flags: flags, app: app}
}

// Register adds the search command to the application.
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Usage:     "Search the game catalog",
		UsageText: "tracklog search [--json] <query>...",
		Description: `Queries the catalog once per argument. Several queries run concurrently;
results are printed in argument order.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// searchResult is the JSON output format for tracklog search --json.
type searchResult struct {
	Query string              `json:"query"`
	Games []catalog.Candidate `json:"games"`
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	queries := c.Args().Slice()
	if len(queries) == 0 {
		return fmt.Errorf("at least one query is required")
	}

	results, err := searchAll(ctx, cmd.app.Catalog, queries)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, r := range results {
			if err := iojson.WriteLine(out, r); err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "QUERY\tID\tNAME\tCOVER")
	for _, r := range results {
		if len(r.Games) == 0 {
			_, _ = fmt.Fprintf(w, "%s\t-\tNo games found\t\n", r.Query)
			continue
		}
		for _, g := range r.Games {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Query, g.ID, g.Name, g.CoverURL)
		}
	}
	return w.Flush()
}

// searchAll runs every query against cat. The first failure cancels the rest.
func searchAll(ctx context.Context, cat catalog.Catalog, queries []string) ([]searchResult, error) {
	results := make([]searchResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSearches)

	for i, q := range queries {
		g.Go(func() error {
			games, err := cat.Search(ctx, q)
			if err != nil {
				return fmt.Errorf("search %q: %w", q, err)
			}
			if games == nil {
				games = []catalog.Candidate{}
			}
			results[i] = searchResult{Query: q, Games: games}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
