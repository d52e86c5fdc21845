package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrInvalidTransition is returned when a timer or workflow transition is not allowed
	// from the current task state (e.g. starting an active or completed task).
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotActive is returned when a timer operation requires a running timer.
	ErrNotActive = errors.New("timer not active")
	// ErrCorruptedInvariant is returned when more than one task holds a running timer.
	ErrCorruptedInvariant = errors.New("corrupted invariant")
	// ErrConflict is returned when a task was modified concurrently (version mismatch).
	ErrConflict = errors.New("conflict")
)
