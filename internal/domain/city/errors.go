package city

import "errors"

var (
	// ErrCityNotFound indicates the city doesn't exist.
	ErrCityNotFound = errors.New("city not found")
	// ErrDuplicateName indicates another city already uses the name.
	ErrDuplicateName = errors.New("city name already exists")
	// ErrHasBuildings indicates the city is still referenced by buildings.
	ErrHasBuildings = errors.New("city still has buildings")
	// ErrInvalidInput indicates invalid city input outside of field validation.
	ErrInvalidInput = errors.New("invalid city input")
)
