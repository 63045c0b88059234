package service

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by every service. The HTTP layer maps these
// onto status codes and the uniform response envelope; storage failures
// that are none of these stay generic and are never shown to callers.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateReport    = errors.New("a report for this organisation and month already exists")
	ErrDuplicateUser      = errors.New("username already taken")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries the offending field so callers can show a
// specific, actionable message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
