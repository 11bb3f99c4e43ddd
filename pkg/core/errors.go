package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
	ErrReadOnly   = errors.New("store is in read-only mode")
	ErrCancelled  = errors.New("cancelled")

	// ErrNoActiveNote is returned when an operation needs an open note.
	ErrNoActiveNote = fmt.Errorf("no active note: %w", ErrNotFound)
)

// StorageError reports a failed store operation on a key.
// It matches ErrStorage with errors.Is.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NotFound wraps ErrNotFound with the kind and id of the missing record.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
