package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type ShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string
}

// NewShowCommand returns the show command.
func NewShowCommand(rootCmd *RootCommand, app *kingpin.Application) *ShowCommand {
	c := &ShowCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("show", "Show a task with its live timers.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c ShowCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	view, err := svc.TaskView(ctx, c.id)
	if err != nil {
		return fmt.Errorf("could not get task: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintTask(view); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
