package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type BoardCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewBoardCommand returns the board command.
func NewBoardCommand(rootCmd *RootCommand, app *kingpin.Application) *BoardCommand {
	c := &BoardCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("board", "Show the board columns with the live timers.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c BoardCommand) Name() string { return c.Cmd.FullCommand() }

func (c BoardCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("could not get board: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintBoard(snapshot); err != nil {
		return fmt.Errorf("could not print board: %w", err)
	}

	return nil
}
