package lib_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/staffboard/pkg/lib"
)

// This example shows how to create a client with in memory storage for testing.
func Example_testing() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{
		DataDir: "/tmp/unused",
		Storage: lib.StorageMemory,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	task, err := client.CreateTask(ctx, lib.CreateTaskOpts{
		Codename:             "falcon",
		StaffingTimeEstimate: "02:00",
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Created: %s (column: %s, active: %t)\n", task.Codename, task.Column, task.Active)

	// Output:
	// Created: falcon (column: incoming, active: false)
}

// This example shows a task going through the whole board until it's archived.
func Example_lifecycle() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{
		DataDir: "/tmp/unused",
		Storage: lib.StorageMemory,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	task, err := client.CreateTask(ctx, lib.CreateTaskOpts{Codename: "falcon", StaffingTimeEstimate: "02:00"})
	if err != nil {
		panic(err)
	}

	for _, c := range []lib.Column{lib.ColumnInProgress, lib.ColumnWaiting, lib.ColumnAdjustingComments, lib.ColumnCompleted} {
		res, err := client.MoveTask(ctx, task.ID, c)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s -> %s (timer: %q)\n", res.From, res.To, res.Task.ActiveTimer)
	}

	entry, err := client.ArchiveTask(ctx, task.ID)
	if err != nil {
		panic(err)
	}

	tasks, err := client.ListTasks(ctx, nil)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Archived: %s (tasks left: %d)\n", entry.Codename, len(tasks))

	// Output:
	// incoming -> in-progress (timer: "doing")
	// in-progress -> waiting (timer: "waiting")
	// waiting -> adjusting-comments (timer: "fixing")
	// adjusting-comments -> completed (timer: "")
	// Archived: falcon (tasks left: 0)
}

// This example shows the single running timer of the board.
func Example_singleTimer() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{
		DataDir: "/tmp/unused",
		Storage: lib.StorageMemory,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	a, _ := client.CreateTask(ctx, lib.CreateTaskOpts{Codename: "falcon", StaffingTimeEstimate: "02:00"})
	b, _ := client.CreateTask(ctx, lib.CreateTaskOpts{Codename: "heron", StaffingTimeEstimate: "01:00"})

	_, _ = client.MoveTask(ctx, a.ID, lib.ColumnInProgress)
	_, _ = client.MoveTask(ctx, b.ID, lib.ColumnInProgress)

	board, err := client.Board(ctx)
	if err != nil {
		panic(err)
	}
	for _, t := range board.Tasks {
		fmt.Printf("%s active: %t\n", t.Codename, t.Active)
	}

	// Starting a running timer is not allowed.
	_, err = client.StartTimer(ctx, b.ID)
	fmt.Println(errors.Is(err, lib.ErrInvalidTransition))

	// Output:
	// falcon active: false
	// heron active: true
	// true
}

// This example shows how to format timer values.
func Example_formatting() {
	fmt.Println(lib.FormatDuration(3599))
	fmt.Println(lib.FormatDuration(3600))
	fmt.Println(lib.FormatClock(3_723_000))
	fmt.Println(lib.UrgencyTier(1799), lib.UrgencyTier(1800))

	// Output:
	// 59m 59s
	// 1h 0m
	// 01:02:03
	// low medium
}
