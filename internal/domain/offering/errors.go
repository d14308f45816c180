package offering

import "errors"

var (
	// ErrOfferingNotFound indicates the service offering doesn't exist.
	ErrOfferingNotFound = errors.New("service not found")
	// ErrDuplicateName indicates another offering uses the name.
	ErrDuplicateName = errors.New("service name already exists")
	// ErrInUse indicates orders still reference the offering.
	ErrInUse = errors.New("service is referenced by orders")
)
