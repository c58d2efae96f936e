package sieve

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned when Start or Run is called twice.
	ErrAlreadyStarted = errors.New("already started")

	// ErrReentrantMutation is the panic value raised when a Store is mutated
	// while a previous mutation is still notifying subscribers.
	ErrReentrantMutation = errors.New("store mutated during notification")

	// ErrDuplicateID is returned when a fed document contains the same
	// record ID twice.
	ErrDuplicateID = errors.New("duplicate record id")
)

// ProgressError reports a record whose progress could not be read as a
// number. Such records fail the progress predicate.
type ProgressError struct {
	ID       string
	Progress string
	Err      error
}

func (e *ProgressError) Error() string {
	return fmt.Sprintf("record %q: invalid progress %q: %v", e.ID, e.Progress, e.Err)
}

func (e *ProgressError) Unwrap() error {
	return e.Err
}
