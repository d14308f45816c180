package order

import "errors"

var (
	// ErrOrderNotFound indicates the order doesn't exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition indicates the requested status change is not allowed.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrNotDeletable indicates the order is confirmed or completed.
	ErrNotDeletable = errors.New("only pending or cancelled orders can be deleted")
	// ErrInvalidInput indicates an unknown status value.
	ErrInvalidInput = errors.New("invalid order input")
)
