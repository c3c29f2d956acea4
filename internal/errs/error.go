package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrOutOfStock      = errors.New("All copies of this book are currently in hand. Please choose another one.")
	ErrAlreadyReturned = errors.New("The actual return date has already been set")
	ErrForbidden       = errors.New("forbidden")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrBadCredentials  = errors.New("invalid credentials")
)

// ValidationError is a field-scoped validation failure: field name to the
// list of messages for that field. Clients render the map inline.
type ValidationError struct {
	Fields map[string][]string `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for field, msgs := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return strings.Join(parts, ", ")
}

// Add merges another field error into the map, keeping earlier messages.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Merge folds err into v when err is a ValidationError and returns the
// accumulated error, so callers can chain several checks before bailing out.
func Merge(dst *ValidationError, err error) *ValidationError {
	if err == nil {
		return dst
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return dst
	}
	if dst == nil {
		dst = &ValidationError{Fields: make(map[string][]string)}
	}
	for field, msgs := range ve.Fields {
		for _, m := range msgs {
			dst.Add(field, m)
		}
	}
	return dst
}

// OrNil converts the typed nil that Merge may produce back to a plain nil error.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}
