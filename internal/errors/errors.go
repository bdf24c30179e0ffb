package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a business-rule violation so the API boundary can map it
// to an HTTP status without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindForbidden
	KindDuplicated
)

// Error is a business error raised at the point of detection and surfaced
// unchanged to the API boundary.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound marks a missing entity, or one deliberately invisible to the caller.
func NotFound(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

// Validation marks malformed input or a violated field constraint.
func Validation(format string, args ...any) error {
	return newError(KindValidation, format, args...)
}

// Conflict marks an illegal state transition or a rule-violating request.
func Conflict(format string, args ...any) error {
	return newError(KindConflict, format, args...)
}

// Forbidden marks an action the caller's role is not allowed to take.
func Forbidden(format string, args ...any) error {
	return newError(KindForbidden, format, args...)
}

// Duplicated marks an attempt to create something that already exists.
func Duplicated(format string, args ...any) error {
	return newError(KindDuplicated, format, args...)
}

// KindOf extracts the kind from err, unwrapping as needed.
// Plain errors report KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
