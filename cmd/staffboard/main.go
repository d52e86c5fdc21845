package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/staffboard/cmd/staffboard/commands"
	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/log"
	loglogrus "github.com/slok/staffboard/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	// Environment from the dotenv file, a missing file is fine.
	if err := godotenv.Load(conventions.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load %s file: %w", conventions.EnvFile, err)
	}

	app := kingpin.New("staffboard", "Staffing task board with phase timers.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	createCmd := commands.NewCreateCommand(rootCmd, app)
	listCmd := commands.NewListCommand(rootCmd, app)
	boardCmd := commands.NewBoardCommand(rootCmd, app)
	showCmd := commands.NewShowCommand(rootCmd, app)
	notesCmd := commands.NewNotesCommand(rootCmd, app)
	startCmd := commands.NewStartCommand(rootCmd, app)
	pauseCmd := commands.NewPauseCommand(rootCmd, app)
	toggleCmd := commands.NewToggleCommand(rootCmd, app)
	moveCmd := commands.NewMoveCommand(rootCmd, app)
	moveActiveCmd := commands.NewMoveActiveCommand(rootCmd, app)
	archiveCmd := commands.NewArchiveCommand(rootCmd, app)
	removeCmd := commands.NewRemoveCommand(rootCmd, app)
	analyticsCmd := commands.NewAnalyticsCommand(rootCmd, app)
	verifyCmd := commands.NewVerifyCommand(rootCmd, app)
	watchCmd := commands.NewWatchCommand(rootCmd, app)
	serveCmd := commands.NewServeCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		createCmd.Name():     createCmd,
		listCmd.Name():       listCmd,
		boardCmd.Name():      boardCmd,
		showCmd.Name():       showCmd,
		notesCmd.Name():      notesCmd,
		startCmd.Name():      startCmd,
		pauseCmd.Name():      pauseCmd,
		toggleCmd.Name():     toggleCmd,
		moveCmd.Name():       moveCmd,
		moveActiveCmd.Name(): moveActiveCmd,
		archiveCmd.Name():    archiveCmd,
		removeCmd.Name():     removeCmd,
		analyticsCmd.Name():  analyticsCmd,
		verifyCmd.Name():     verifyCmd,
		watchCmd.Name():      watchCmd,
		serveCmd.Name():      serveCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Auto-suppress logging for commands that produce structured output (table/JSON)
	// to prevent log noise from mixing with printer output in the terminal.
	// Users can still enable logging with --debug.
	printerCommands := map[string]bool{
		"list":      true,
		"board":     true,
		"show":      true,
		"analytics": true,
		"watch":     true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(*rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // By default logger goes to stderr (so it can split stdout prints).
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
