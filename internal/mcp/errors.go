package mcp

import (
	"fmt"

	"github.com/rpggio/spacedesk/internal/transport"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var recoveryHints = map[string]string{
	"VALIDATION_FAILED":      "Fix the listed fields; validate_entity checks a payload without saving",
	"CITY_NOT_FOUND":         "Use list_cities to find the id",
	"BUILDING_NOT_FOUND":     "Use list_buildings to find the id",
	"SPACE_NOT_FOUND":        "Use list_spaces to find the id",
	"DUPLICATE_NAME":         "Pick another name or update the existing entity",
	"BUILDING_HAS_SPACES":    "Delete or move the building's spaces first",
	"CITY_HAS_BUILDINGS":     "Delete or move the city's buildings first",
	"SPACE_HAS_ORDERS":       "Cancel and delete the space's orders first",
	"RETRYABLE_CONFLICT":     "Retry the same call",
	"STATISTICS_OUT_OF_SYNC": "The entity was saved; run `spacedesk stats verify` to recount",
}

// mapError maps domain errors to tool error codes, sharing the REST error table.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	f := transport.MapError(err)
	return &APIError{
		Code:         f.Code,
		Message:      f.Message,
		Details:      f.Details,
		RecoveryHint: recoveryHints[f.Code],
	}
}

func invalidParams(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_PARAMS", Message: fmt.Sprintf(format, args...)}
}
