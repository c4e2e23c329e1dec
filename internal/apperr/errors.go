// Package apperr holds the error taxonomy shared by the store, the
// enrollment workflow and every front end. Kinds are sentinels so callers
// can match with errors.Is; *Error carries the operation and field context.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// Fatal: the application cannot start without the store.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSchema             = errors.New("schema error")

	// Recoverable: surfaced inline, the form keeps its values.
	ErrMissingField  = errors.New("missing field")
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidPhone  = errors.New("invalid phone")
	ErrIneligible    = errors.New("not eligible")
	ErrWrite         = errors.New("write error")
	ErrNotFound      = errors.New("not found")
)

// Error is an error with workflow context.
type Error struct {
	Op      string // e.g. "db.Insert", "enroll.Submit"
	Kind    error  // one of the sentinels above
	Field   string // offending form field, if any
	Message string // user-facing text
	Err     error  // underlying cause (optional)
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches both the kind and the wrapped cause.
func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func New(op string, kind error, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

func Wrap(op string, kind error, message string, err error) *Error {
	return &Error{Op: op, Kind: kind, Message: message, Err: err}
}

// FieldError reports a problem with a single form field.
func FieldError(op string, kind error, field, message string) *Error {
	return &Error{Op: op, Kind: kind, Field: field, Message: message}
}

// IsFatal reports whether err should abort startup.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrSchema)
}

// Message returns the user-facing text of err, falling back to err.Error().
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// KindOf returns the taxonomy kind of err, or nil if it has none.
func KindOf(err error) error {
	for _, k := range []error{
		ErrStorageUnavailable, ErrSchema, ErrMissingField, ErrInvalidNumber,
		ErrInvalidPhone, ErrIneligible, ErrWrite, ErrNotFound,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
