package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/staffboard/internal/board"
)

type CreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	codename string
	estimate string
	notes    string
}

// NewCreateCommand returns the create command.
func NewCreateCommand(rootCmd *RootCommand, app *kingpin.Application) *CreateCommand {
	c := &CreateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("create", "Create a new task on the incoming column.")
	c.Cmd.Arg("codename", "Project codename.").Required().StringVar(&c.codename)
	c.Cmd.Flag("estimate", "Staffing time estimate (e.g. 01:30).").Short('e').Required().StringVar(&c.estimate)
	c.Cmd.Flag("notes", "Task notes.").StringVar(&c.notes)

	return c
}

func (c CreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c CreateCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	task, err := svc.CreateTask(ctx, board.CreateTaskRequest{
		Codename:             c.codename,
		StaffingTimeEstimate: c.estimate,
		Notes:                c.notes,
	})
	if err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Task created successfully!\n")
	fmt.Fprintf(c.rootCmd.Stdout, "  ID:       %s\n", task.ID)
	fmt.Fprintf(c.rootCmd.Stdout, "  Codename: %s\n", task.Codename)
	fmt.Fprintf(c.rootCmd.Stdout, "  Estimate: %s\n", task.StaffingTimeEstimate)
	fmt.Fprintf(c.rootCmd.Stdout, "  Column:   %s\n", task.Column)

	return nil
}
