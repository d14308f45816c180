package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/spacedesk/internal/domain/entity"
)

// Kinded is implemented by payloads that know which collection they belong to.
type Kinded interface {
	EntityKind() entity.Kind
}

// Gate checks payloads before persistence. It performs no I/O and keeps no state
// besides the compiled rule cache, so one Gate is shared by all services.
type Gate struct {
	validate *validator.Validate
}

// NewGate builds a gate with the brand and notblank rules registered.
func NewGate() *Gate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("brand", func(fl validator.FieldLevel) bool {
		return entity.ValidBrand(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Gate{validate: v}
}

// Validate returns one FieldError per violated rule, or nil when payload is valid.
// It never stops at the first failure.
func (g *Gate) Validate(kind entity.Kind, payload any) []FieldError {
	if !kind.Valid() {
		return []FieldError{{Field: "entityType", Message: fmt.Sprintf("unknown entity type %q", kind)}}
	}
	if payload == nil || (reflect.ValueOf(payload).Kind() == reflect.Pointer && reflect.ValueOf(payload).IsNil()) {
		return []FieldError{{Field: "payload", Message: "payload is required"}}
	}
	if k, ok := payload.(Kinded); ok && k.EntityKind() != kind {
		return []FieldError{{Field: "entityType", Message: fmt.Sprintf("payload is a %s, not a %s", k.EntityKind(), kind)}}
	}

	err := g.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "payload", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// Check wraps Validate into an error for service code.
func (g *Gate) Check(kind entity.Kind, payload any) error {
	if fields := g.Validate(kind, payload); len(fields) > 0 {
		return &Error{Entity: kind, Fields: fields}
	}
	return nil
}

// fieldPath drops the root struct name from the namespace: "BuildingInput.location.city" -> "location.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "brand":
		return fmt.Sprintf("%s must be one of %s, got %q", field, entity.BrandNames(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
