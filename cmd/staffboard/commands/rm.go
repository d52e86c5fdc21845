package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewRemoveCommand returns the remove command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("rm", "Remove a task without archiving it.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)

	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	if err := svc.DeleteTask(ctx, c.id); err != nil {
		return fmt.Errorf("could not remove task: %w", err)
	}

	if err := c.rootCmd.printer(formatTable).PrintMessage(fmt.Sprintf("Removed task: %s", c.id)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
