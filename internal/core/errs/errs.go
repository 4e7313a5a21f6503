// Package errs defines the narrow failure kinds shared by every entity operation.
// Callers branch on the kind with errors.Is; the message is for humans.
package errs

import (
	"errors"
	"fmt"
)

// Kinds of failure. Wrap them with New/Newf; never return them bare from a service.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("duplicate name")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
)

// Error is a domain failure of a specific kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the kind so errors.Is(err, errs.ErrConflict) works.
func (e *Error) Unwrap() error {
	return e.Kind
}

// New returns an *Error of the given kind.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that an entity of the given type could not be resolved by key.
func NotFound(entityType, key string) error {
	return Newf(ErrNotFound, "%s %s not found", entityType, key)
}

// KindOf returns the kind of err, or nil when err carries none of the known kinds.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrDuplicateName, ErrConflict, ErrInvalidTransition, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
