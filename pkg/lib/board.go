package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/ticker"
)

// Board returns the board with the live timer values. It never writes.
func (c *Client) Board(ctx context.Context) (*Board, error) {
	s, err := c.board.Snapshot(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSnapshot(s)
	return &result, nil
}

// Checkpoint makes the seconds of the running timer durable without stopping
// it. Returns true if something was written.
func (c *Client) Checkpoint(ctx context.Context) (bool, error) {
	written, err := c.board.Checkpoint(ctx)
	if err != nil {
		return false, mapError(err)
	}
	return written, nil
}

// Verify scans the board and repairs the timer state. A board with more than
// one running timer keeps the most recently started one, see [VerifyReport.Err].
func (c *Client) Verify(ctx context.Context) (*VerifyReport, error) {
	r, err := c.board.Verify(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalVerifyReport(r)
	return &result, nil
}

// Watch calls fn with the live board every interval and checkpoints the running
// timer on the configured checkpoint interval. It blocks until the context is
// cancelled, returning nil.
func (c *Client) Watch(ctx context.Context, interval time.Duration, fn func(Board)) error {
	if fn == nil {
		return fmt.Errorf("watch function is required: %w", ErrNotValid)
	}

	tk, err := ticker.New(ticker.Config{
		Board:              c.board,
		DisplayInterval:    interval,
		CheckpointInterval: c.checkpointInterval,
		Sink:               func(s model.BoardSnapshot) { fn(fromInternalSnapshot(s)) },
		Logger:             c.logger,
	})
	if err != nil {
		return mapError(fmt.Errorf("could not create ticker: %w", err))
	}

	return tk.Run(ctx)
}
