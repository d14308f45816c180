package building

import "errors"

var (
	// ErrBuildingNotFound indicates the building doesn't exist.
	ErrBuildingNotFound = errors.New("building not found")
	// ErrDuplicateName indicates another building in the same city uses the name.
	ErrDuplicateName = errors.New("building name already exists in city")
	// ErrHasSpaces indicates the building still has spaces.
	ErrHasSpaces = errors.New("building still has spaces")
)
