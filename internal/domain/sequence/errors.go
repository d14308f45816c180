package sequence

import "errors"

var (
	// ErrRetryableConflict indicates the counter stayed busy for every attempt.
	// Nothing was issued; the caller may retry the allocation.
	ErrRetryableConflict = errors.New("sequence allocation contention, retry")
	// ErrInvalidInput indicates an unknown entity type or scope.
	ErrInvalidInput = errors.New("invalid sequence input")
	// ErrMalformedID indicates a string that is not <PREFIX><YY><NNN>.
	ErrMalformedID = errors.New("malformed sequence id")
)
