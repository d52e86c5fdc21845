package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"

	staffhttp "github.com/slok/staffboard/internal/http"
	"github.com/slok/staffboard/internal/ticker"
)

type ServeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listenAddress    string
	listenAddressSet bool
	rateLimit        int
	rateLimitSet     bool
}

// NewServeCommand returns the serve command.
func NewServeCommand(rootCmd *RootCommand, app *kingpin.Application) *ServeCommand {
	c := &ServeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("serve", "Serve the board HTTP API, checkpointing the running timer.")
	c.Cmd.Flag("listen-address", "HTTP API listen address (default: the configured one).").IsSetByUser(&c.listenAddressSet).StringVar(&c.listenAddress)
	c.Cmd.Flag("rate-limit", "Requests per minute allowed per client, 0 disables it (default: the configured one).").IsSetByUser(&c.rateLimitSet).IntVar(&c.rateLimit)

	return c
}

func (c ServeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	svc, cfg, closeBoard, err := c.rootCmd.openBoard(ctx, openLongRunning)
	if err != nil {
		return err
	}
	defer closeBoard()

	if c.listenAddressSet {
		cfg.HTTP.ListenAddress = c.listenAddress
	}
	if c.rateLimitSet {
		cfg.HTTP.RateLimitPerMinute = c.rateLimit
	}

	server, err := staffhttp.NewServer(staffhttp.ServerConfig{
		Board:              svc,
		ListenAddress:      cfg.HTTP.ListenAddress,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("could not create HTTP server: %w", err)
	}

	tk, err := ticker.New(ticker.Config{
		Board:              svc,
		CheckpointInterval: cfg.Timer.CheckpointInterval,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("could not create ticker: %w", err)
	}

	var g run.Group

	// HTTP API.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				return server.Run(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// Checkpoints.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				return tk.Run(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}
