package validation

import (
	"errors"
	"strings"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// ErrInvalid is matched by every *Error.
var ErrInvalid = errors.New("validation failed")

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violation found for one payload.
type Error struct {
	Entity entity.Kind
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return string(e.Entity) + " validation failed: " + strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// FieldErrors extracts the field errors from err, if it is a validation error.
func FieldErrors(err error) ([]FieldError, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
