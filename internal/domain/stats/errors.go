package stats

import "errors"

var (
	// ErrRetryableConflict indicates the city row stayed busy for every attempt.
	ErrRetryableConflict = errors.New("statistics update contention, retry")
	// ErrInvalidInput indicates a missing city id or unknown event.
	ErrInvalidInput = errors.New("invalid statistics input")
	// ErrCityNotFound is returned by reads for an unknown city.
	ErrCityNotFound = errors.New("city not found")
)

// ErrOutOfSync is returned alongside a persisted entity whose statistics event could not
// be applied. The entity write is not rolled back.
var ErrOutOfSync = errors.New("entity saved but city statistics were not updated")
