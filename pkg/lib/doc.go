// Package lib provides a Go SDK to drive a staffboard task board programmatically.
//
// The board tracks staffing tasks through its columns, accumulating the time
// each task spends doing, waiting for comments and fixing them. A single timer
// runs on the whole board, starting a task pauses the previous one.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	task, _ := client.CreateTask(ctx, lib.CreateTaskOpts{
//	    Codename:             "falcon",
//	    StaffingTimeEstimate: "02:00",
//	})
//
//	// Moving into a timed column starts its timer.
//	client.MoveTask(ctx, task.ID, lib.ColumnInProgress)
//	client.MoveTask(ctx, task.ID, lib.ColumnWaiting)
//	client.MoveTask(ctx, task.ID, lib.ColumnCompleted)
//	entry, _ := client.ArchiveTask(ctx, task.ID)
//	fmt.Println(lib.FormatDuration(entry.TotalTime))
//
// # Columns and timers
//
// Each column runs one timer phase:
//
//   - [ColumnIncoming]: none, the backlog.
//   - [ColumnInProgress]: doing.
//   - [ColumnWaiting]: waiting.
//   - [ColumnAdjustingComments]: fixing.
//   - [ColumnCompleted]: none, tasks here can be archived.
//
// The total time of an archived task is doing plus fixing, waiting is not work.
//
// # Storage
//
// The board is stored on SQLite by default. [StorageFile] and [StorageRedis]
// use the same key layout as the browser board so both can share the data.
// [StorageMemory] is meant for tests.
//
// # Live view
//
// [Client.Board] returns the board with the live timer values and
// [Client.Watch] keeps calling a function with it, making the running timer
// durable on a lower cadence:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	client.Watch(ctx, time.Second, func(b lib.Board) {
//	    fmt.Println(lib.FormatDuration(b.TotalLiveSeconds))
//	})
//
// # Recovery
//
// A process killed with a timer running leaves it open. [Config].RecoverPolicy
// decides on [New] if the timer keeps counting ([RecoverResume]) or is closed
// with the seconds of its last checkpoint ([RecoverCheckpoint]). The board is
// verified afterwards, see [Client.Verify].
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Task does not exist.
//   - [ErrNotValid]: Invalid input (e.g. unknown column).
//   - [ErrInvalidTransition]: The task state doesn't allow the operation.
//   - [ErrNotActive]: The operation needs a running timer.
//   - [ErrConflict]: Another writer kept modifying the task.
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. Mutations are
// serialized and stored with compare-and-set so several processes can share a board.
package lib
