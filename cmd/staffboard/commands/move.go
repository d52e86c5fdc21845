package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/printer"
)

type MoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	column string
}

// NewMoveCommand returns the move command.
func NewMoveCommand(rootCmd *RootCommand, app *kingpin.Application) *MoveCommand {
	c := &MoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("move", "Move a task to a column, the column decides the running timer.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Arg("column", "Destination column (incoming, in-progress, waiting, adjusting-comments, completed).").Required().StringVar(&c.column)

	return c
}

func (c MoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c MoveCommand) Run(ctx context.Context) error {
	column, err := model.ParseColumn(c.column)
	if err != nil {
		return fmt.Errorf("invalid column: %w", err)
	}

	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	res, err := svc.MoveTask(ctx, c.id, column)
	if err != nil {
		return fmt.Errorf("could not move task: %w", err)
	}

	if err := c.rootCmd.printer(formatTable).PrintMessage(moveMessage(res)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}

type MoveActiveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	position int
}

// NewMoveActiveCommand returns the move-active command.
func NewMoveActiveCommand(rootCmd *RootCommand, app *kingpin.Application) *MoveActiveCommand {
	c := &MoveActiveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("move-active", "Move the task with the running timer to the column at a board position.")
	c.Cmd.Arg("position", "Board column position, starting at 1 (1 incoming, 2 in-progress, 3 waiting, 4 adjusting-comments, 5 completed).").Required().IntVar(&c.position)

	return c
}

func (c MoveActiveCommand) Name() string { return c.Cmd.FullCommand() }

func (c MoveActiveCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	res, err := svc.MoveActiveTask(ctx, c.position-1)
	if err != nil {
		return fmt.Errorf("could not move active task: %w", err)
	}

	if err := c.rootCmd.printer(formatTable).PrintMessage(moveMessage(res)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}

func moveMessage(res *board.MoveResult) string {
	tr := res.Transition
	msg := fmt.Sprintf("Moved %s (%s): %s -> %s", res.Task.Codename, res.Task.ID, tr.From.Title(), tr.To.Title())

	switch {
	case tr.Continued:
		msg += fmt.Sprintf(", %s timer keeps running", res.Task.ActiveTimer)
	case tr.Started != model.PhaseNone && tr.ClosedPhase != model.PhaseNone:
		msg += fmt.Sprintf(", %s closed with %s, %s timer running", tr.ClosedPhase, printer.FormatDuration(tr.ClosedSeconds), tr.Started)
	case tr.Started != model.PhaseNone:
		msg += fmt.Sprintf(", %s timer running", tr.Started)
	case tr.Stopped():
		msg += fmt.Sprintf(", timer stopped, %s closed with %s", tr.ClosedPhase, printer.FormatDuration(tr.ClosedSeconds))
	}

	return msg
}
