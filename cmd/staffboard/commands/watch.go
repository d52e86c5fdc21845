package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/ticker"
)

const clearScreen = "\033[H\033[2J"

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval time.Duration
	noClear  bool
	format   string
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Show the board refreshing the live timers, checkpointing the running timer.")
	c.Cmd.Flag("interval", "Refresh interval (default: the configured display interval).").DurationVar(&c.interval)
	c.Cmd.Flag("no-clear", "Don't clear the screen between refreshes.").BoolVar(&c.noClear)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	svc, cfg, closeBoard, err := c.rootCmd.openBoard(ctx, openLongRunning)
	if err != nil {
		return err
	}
	defer closeBoard()

	interval := cfg.Timer.DisplayInterval
	if c.interval > 0 {
		interval = c.interval
	}

	p := c.rootCmd.printer(c.format)
	clearOnRefresh := c.format == formatTable && !c.noClear

	tk, err := ticker.New(ticker.Config{
		Board:              svc,
		DisplayInterval:    interval,
		CheckpointInterval: cfg.Timer.CheckpointInterval,
		Sink: func(s model.BoardSnapshot) {
			if clearOnRefresh {
				fmt.Fprint(c.rootCmd.Stdout, clearScreen)
			}
			if err := p.PrintBoard(s); err != nil {
				logger.Errorf("could not print board: %s", err)
			}
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create ticker: %w", err)
	}

	return tk.Run(ctx)
}
