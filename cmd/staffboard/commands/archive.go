package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/staffboard/internal/printer"
)

type ArchiveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewArchiveCommand returns the archive command.
func NewArchiveCommand(rootCmd *RootCommand, app *kingpin.Application) *ArchiveCommand {
	c := &ArchiveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("archive", "Archive a completed task into the analytics log.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)

	return c
}

func (c ArchiveCommand) Name() string { return c.Cmd.FullCommand() }

func (c ArchiveCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	entry, err := svc.ArchiveTask(ctx, c.id)
	if err != nil {
		return fmt.Errorf("could not archive task: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Task archived: %s (%s)\n", entry.Codename, entry.ID)
	fmt.Fprintf(c.rootCmd.Stdout, "  Doing:   %s\n", printer.FormatDuration(entry.Times.Doing))
	fmt.Fprintf(c.rootCmd.Stdout, "  Waiting: %s\n", printer.FormatDuration(entry.Times.Waiting))
	fmt.Fprintf(c.rootCmd.Stdout, "  Fixing:  %s\n", printer.FormatDuration(entry.Times.Fixing))
	fmt.Fprintf(c.rootCmd.Stdout, "  Total:   %s\n", printer.FormatDuration(entry.TotalTime))
	fmt.Fprintf(c.rootCmd.Stdout, "  SLA:     %s\n", printer.FormatDuration(entry.SLA))

	return nil
}
