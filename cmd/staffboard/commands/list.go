package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/staffboard/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	column string
	format string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the board tasks with their live timers.")
	c.Cmd.Flag("column", "Filter by column (incoming, in-progress, waiting, adjusting-comments, completed).").StringVar(&c.column)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	var column *model.Column
	if c.column != "" {
		col, err := model.ParseColumn(c.column)
		if err != nil {
			return fmt.Errorf("invalid column filter: %w", err)
		}
		column = &col
	}

	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	tasks := snapshot.Tasks
	if column != nil {
		tasks = snapshot.TasksInColumn(*column)
	}

	if err := c.rootCmd.printer(c.format).PrintTasks(tasks); err != nil {
		return fmt.Errorf("could not print tasks: %w", err)
	}

	return nil
}
