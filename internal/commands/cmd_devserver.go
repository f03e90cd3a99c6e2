package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/integration/catalogapi/fixture"
	"github.com/colonyops/tracklog/internal/printer"
)

type DevServerCmd struct {
	flags *Flags

	addr     string
	fixtures string
	envelope string
	latency  time.Duration
}

// NewDevServerCmd creates the dev-server command.
func NewDevServerCmd(flags *Flags) *DevServerCmd {
	return &DevServerCmd{flags: flags}
}

// Register adds the dev-server command to the application.
func (cmd *DevServerCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dev-server",
		Usage:     "Serve a fixture catalog for offline development",
		UsageText: "tracklog dev-server --fixtures games.json [--addr :5000]",
		Description: `Serves the search and platforms endpoints from a JSON file of games:

  [{"id": 1, "name": "Super Mario Bros.", "cover": {"url": "..."}, "platforms": ["NES"]}]

Point catalog.base_url at the printed address. --latency delays every search
response, which makes request cancellation visible in the TUI.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:5000",
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "fixtures",
				Usage:       "path to a JSON array of games",
				Required:    true,
				TakesFile:   true,
				Destination: &cmd.fixtures,
			},
			&cli.StringFlag{
				Name:        "envelope",
				Usage:       "search response shape (array, results)",
				Value:       string(catalog.EnvelopeArray),
				Destination: &cmd.envelope,
			},
			&cli.DurationFlag{
				Name:        "latency",
				Usage:       "artificial delay for search responses",
				Destination: &cmd.latency,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DevServerCmd) run(ctx context.Context, _ *cli.Command) error {
	env := catalog.Envelope(cmd.envelope)
	if !env.Valid() {
		return fmt.Errorf("unknown envelope %q", cmd.envelope)
	}

	games, err := fixture.Load(cmd.fixtures)
	if err != nil {
		return err
	}

	opts := []fixture.Option{
		fixture.WithEnvelope(env),
		fixture.WithRequestLog(),
	}
	if cmd.latency > 0 {
		latency := cmd.latency
		opts = append(opts, fixture.WithLatency(func(string) time.Duration { return latency }))
	}

	ln, err := net.Listen("tcp", cmd.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           fixture.NewHandler(games, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown dev server")
		}
	}()

	printer.Ctx(ctx).Successf("Serving %d games on http://%s", len(games), ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
