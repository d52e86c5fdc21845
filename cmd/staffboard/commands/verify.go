package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"
)

type VerifyCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewVerifyCommand returns the verify command.
func NewVerifyCommand(rootCmd *RootCommand, app *kingpin.Application) *VerifyCommand {
	c := &VerifyCommand{rootCmd: rootCmd}
	c.Cmd = app.Command("verify", "Check the board timers and repair them if required.")
	return c
}

func (c VerifyCommand) Name() string { return c.Cmd.FullCommand() }

func (c VerifyCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openUnverified)
	if err != nil {
		return err
	}
	defer closeBoard()

	report, err := svc.Verify(ctx)
	if err != nil {
		return fmt.Errorf("could not verify board: %w", err)
	}

	w := c.rootCmd.Stdout
	active := report.ActiveTaskID
	if active == "" {
		active = "none"
	}
	fmt.Fprintf(w, "Active task: %s\n", active)

	if report.Corrupted {
		fmt.Fprintf(w, "Multiple running timers found, paused: %s\n", strings.Join(report.PausedTaskIDs, ", "))
	}
	if len(report.CompletedFixedIDs) > 0 {
		fmt.Fprintf(w, "Stopped timers of completed tasks: %s\n", strings.Join(report.CompletedFixedIDs, ", "))
	}
	if report.ReferenceFixed {
		fmt.Fprintf(w, "Active task reference rewritten\n")
	}
	if !report.Corrupted && len(report.CompletedFixedIDs) == 0 && !report.ReferenceFixed {
		fmt.Fprintf(w, "Board is consistent\n")
	}

	return nil
}
