package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint rejects the write
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrRetryable is returned when the store was busy and the write was rolled back.
	// Callers may repeat the whole operation.
	ErrRetryable = errors.New("storage contention, retry")
)

// ErrStale is returned by conditional writes when the row no longer holds the state
// the caller read. It matches ErrRetryable: re-read and repeat.
var ErrStale = fmt.Errorf("%w: row changed since it was read", ErrRetryable)
