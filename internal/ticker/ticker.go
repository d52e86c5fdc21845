// Package ticker drives the periodic work of a running board: recomputing the
// live timer values for display and making the running intervals durable.
package ticker

import (
	"context"
	"fmt"
	"time"

	"k8s.io/utils/clock"

	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
)

// Board is the board the ticker works on.
type Board interface {
	Snapshot(ctx context.Context) (model.BoardSnapshot, error)
	Checkpoint(ctx context.Context) (bool, error)
}

// Config is the ticker configuration.
type Config struct {
	Board Board
	Clock clock.WithTicker
	// DisplayInterval is the cadence snapshots are sent to the sink.
	DisplayInterval time.Duration
	// CheckpointInterval is the cadence running intervals are made durable.
	CheckpointInterval time.Duration
	// Sink receives the board snapshots. Optional, without sink only checkpoints run.
	Sink   func(model.BoardSnapshot)
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Board == nil {
		return fmt.Errorf("board is required")
	}

	if c.Clock == nil {
		c.Clock = clock.RealClock{}
	}

	if c.DisplayInterval == 0 {
		c.DisplayInterval = conventions.DefaultDisplayInterval
	}
	if c.DisplayInterval < 0 {
		return fmt.Errorf("display interval can't be negative")
	}

	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = conventions.DefaultCheckpointInterval
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("checkpoint interval can't be negative")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "ticker.Ticker"})

	return nil
}

// Ticker runs the display and checkpoint loops of a board.
type Ticker struct {
	board              Board
	clock              clock.WithTicker
	displayInterval    time.Duration
	checkpointInterval time.Duration
	sink               func(model.BoardSnapshot)
	logger             log.Logger
}

// New returns a new ticker.
func New(cfg Config) (*Ticker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Ticker{
		board:              cfg.Board,
		clock:              cfg.Clock,
		displayInterval:    cfg.DisplayInterval,
		checkpointInterval: cfg.CheckpointInterval,
		sink:               cfg.Sink,
		logger:             cfg.Logger,
	}, nil
}

// Run runs the ticker until the context is cancelled. Failures on a tick are
// logged and the next tick is tried again. Cancelling doesn't write anything,
// the last checkpoint is what stays durable.
func (t *Ticker) Run(ctx context.Context) error {
	checkpoint := t.clock.NewTicker(t.checkpointInterval)
	defer checkpoint.Stop()

	var displayC <-chan time.Time
	if t.sink != nil {
		display := t.clock.NewTicker(t.displayInterval)
		defer display.Stop()
		displayC = display.C()

		t.display(ctx)
	}

	t.logger.Debugf("Ticker running (display: %s, checkpoint: %s)", t.displayInterval, t.checkpointInterval)
	for {
		select {
		case <-ctx.Done():
			t.logger.Debugf("Ticker stopped")
			return nil
		case <-displayC:
			t.display(ctx)
		case <-checkpoint.C():
			t.checkpoint(ctx)
		}
	}
}

func (t *Ticker) display(ctx context.Context) {
	snap, err := t.board.Snapshot(ctx)
	if err != nil {
		t.logger.Errorf("Could not get board snapshot: %s", err)
		return
	}
	t.sink(snap)
}

func (t *Ticker) checkpoint(ctx context.Context) {
	written, err := t.board.Checkpoint(ctx)
	if err != nil {
		t.logger.Errorf("Could not checkpoint running timers: %s", err)
		return
	}
	if written {
		t.logger.Debugf("Running timers checkpointed")
	}
}
