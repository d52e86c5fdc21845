package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/printer"
)

type timerOp func(svc *board.Service, ctx context.Context, id string) (*model.Task, error)

// TimerCommand runs a manual timer control (start, pause or toggle) on a task.
type TimerCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	op timerOp
	id string
}

// NewStartCommand returns the start command.
func NewStartCommand(rootCmd *RootCommand, app *kingpin.Application) *TimerCommand {
	return newTimerCommand(rootCmd, app, "start", "Start the timer of a task, pausing any other running timer.", (*board.Service).StartTimer)
}

// NewPauseCommand returns the pause command.
func NewPauseCommand(rootCmd *RootCommand, app *kingpin.Application) *TimerCommand {
	return newTimerCommand(rootCmd, app, "pause", "Pause the running timer of a task.", (*board.Service).PauseTimer)
}

// NewToggleCommand returns the toggle command.
func NewToggleCommand(rootCmd *RootCommand, app *kingpin.Application) *TimerCommand {
	return newTimerCommand(rootCmd, app, "toggle", "Pause the timer of a task if running, start it otherwise.", (*board.Service).ToggleTimer)
}

func newTimerCommand(rootCmd *RootCommand, app *kingpin.Application, name, help string, op timerOp) *TimerCommand {
	c := &TimerCommand{rootCmd: rootCmd, op: op}

	c.Cmd = app.Command(name, help)
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)

	return c
}

func (c TimerCommand) Name() string { return c.Cmd.FullCommand() }

func (c TimerCommand) Run(ctx context.Context) error {
	svc, _, closeBoard, err := c.rootCmd.openBoard(ctx, openOneShot)
	if err != nil {
		return err
	}
	defer closeBoard()

	task, err := c.op(svc, ctx, c.id)
	if err != nil {
		return fmt.Errorf("could not %s timer: %w", c.Name(), err)
	}

	msg := fmt.Sprintf("Paused %s (%s), %s worked", task.Codename, task.ID, printer.FormatDuration(task.Times.Productive()))
	if task.Active {
		msg = fmt.Sprintf("Running %s timer of %s (%s)", task.ActiveTimer, task.Codename, task.ID)
	}

	if err := c.rootCmd.printer(formatTable).PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
