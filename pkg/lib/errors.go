package lib

import "errors"

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a task with the same ID already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input (e.g. an unknown column).
	ErrNotValid = errors.New("not valid")
	// ErrInvalidTransition is returned when the task state doesn't allow the
	// operation (e.g. starting the timer of a backlog task, archiving a task that is not completed).
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotActive is returned when the operation needs a running timer.
	ErrNotActive = errors.New("timer not active")
	// ErrConflict is returned when another writer kept modifying the task.
	ErrConflict = errors.New("conflict")
	// ErrCorruptedInvariant is returned by [VerifyReport.Err] when more than one
	// timer was found running.
	ErrCorruptedInvariant = errors.New("corrupted invariant")
)
