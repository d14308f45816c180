package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/repository"
)

// Failure is the HTTP rendering of a service error.
type Failure struct {
	Status  int
	Code    string
	Message string
	Details any
}

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{city.ErrCityNotFound, http.StatusNotFound, "CITY_NOT_FOUND"},
	{stats.ErrCityNotFound, http.StatusNotFound, "CITY_NOT_FOUND"},
	{building.ErrBuildingNotFound, http.StatusNotFound, "BUILDING_NOT_FOUND"},
	{space.ErrSpaceNotFound, http.StatusNotFound, "SPACE_NOT_FOUND"},
	{offering.ErrOfferingNotFound, http.StatusNotFound, "SERVICE_NOT_FOUND"},
	{order.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},

	{city.ErrDuplicateName, http.StatusConflict, "DUPLICATE_NAME"},
	{building.ErrDuplicateName, http.StatusConflict, "DUPLICATE_NAME"},
	{space.ErrDuplicateName, http.StatusConflict, "DUPLICATE_NAME"},
	{offering.ErrDuplicateName, http.StatusConflict, "DUPLICATE_NAME"},
	{city.ErrHasBuildings, http.StatusConflict, "CITY_HAS_BUILDINGS"},
	{building.ErrHasSpaces, http.StatusConflict, "BUILDING_HAS_SPACES"},
	{space.ErrHasOrders, http.StatusConflict, "SPACE_HAS_ORDERS"},
	{offering.ErrInUse, http.StatusConflict, "SERVICE_IN_USE"},
	{order.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{order.ErrNotDeletable, http.StatusConflict, "ORDER_NOT_DELETABLE"},

	{city.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{order.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{stats.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{sequence.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{errInvalidJSON, http.StatusBadRequest, "INVALID_JSON"},
	{errInvalidQuery, http.StatusBadRequest, "INVALID_QUERY"},

	{sequence.ErrRetryableConflict, http.StatusInternalServerError, "RETRYABLE_CONFLICT"},
	{stats.ErrRetryableConflict, http.StatusInternalServerError, "RETRYABLE_CONFLICT"},
	{repository.ErrRetryable, http.StatusInternalServerError, "RETRYABLE_CONFLICT"},
}

// MapError turns a service error into its HTTP status, code and details.
// Unknown errors map to 500 INTERNAL without leaking their text.
func MapError(err error) Failure {
	if fields, ok := validation.FieldErrors(err); ok {
		return Failure{
			Status:  http.StatusBadRequest,
			Code:    "VALIDATION_FAILED",
			Message: "validation failed",
			Details: fields,
		}
	}
	// Checked before the table: the cause it wraps may itself be a table entry.
	if errors.Is(err, stats.ErrOutOfSync) {
		return Failure{Status: http.StatusInternalServerError, Code: "STATISTICS_OUT_OF_SYNC", Message: stats.ErrOutOfSync.Error()}
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return Failure{Status: e.status, Code: e.code, Message: err.Error()}
		}
	}
	return Failure{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}
