package feed

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by every read/write operation invoked
// before Login has succeeded. The guard fires before any network call.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthError reports a failed login or a missing session. It wraps the
// underlying cause so callers can use errors.Is (ErrNotAuthenticated for the
// pre-login guard, transport errors for credential rejections).
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError wraps err as an authentication failure for the given operation.
func NewAuthError(op string, err error) error {
	return &AuthError{Op: op, Err: err}
}

// ErrUnauthenticated builds the standard guard error for an operation
// invoked before login.
func ErrUnauthenticated(op string) error {
	return &AuthError{Op: op, Err: ErrNotAuthenticated}
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// NotFoundError is returned when a referenced resource (a reply parent, a
// liked post, a profile) does not exist at the provider.
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Ref)
}

// NewNotFoundError creates a new not-found error for the given resource.
func NewNotFoundError(resource, ref string) error {
	return &NotFoundError{Resource: resource, Ref: ref}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
