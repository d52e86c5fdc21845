package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type NotesCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id    string
	notes string
}

// NewNotesCommand returns the notes command.
func NewNotesCommand(rootCmd *RootCommand, app *kingpin.Application) *NotesCommand {
	c := &NotesCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("notes", "Replace the notes of a task.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Arg("notes", "New notes, empty clears them.").StringVar(&c.notes)

	return c
}

func (c NotesCommand) Name() string { return c.Cmd.FullCommand() }

func (c NotesCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	task, err := svc.UpdateNotes(ctx, c.id, c.notes)
	if err != nil {
		return fmt.Errorf("could not update notes: %w", err)
	}

	if err := c.rootCmd.printer(formatTable).PrintMessage(fmt.Sprintf("Updated notes of task: %s", task.ID)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
