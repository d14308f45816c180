package space

import "errors"

var (
	// ErrSpaceNotFound indicates the space doesn't exist.
	ErrSpaceNotFound = errors.New("space not found")
	// ErrDuplicateName indicates another space in the same building uses the name.
	ErrDuplicateName = errors.New("space name already exists in building")
	// ErrHasOrders indicates the space is still referenced by open orders.
	ErrHasOrders = errors.New("space still has orders")
)
