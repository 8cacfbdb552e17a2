package service

import (
	"errors"
	"fmt"
)

// Authentication and authorization errors
var (
	// ErrAPIKeyRequired means no API key was presented at all
	ErrAPIKeyRequired = errors.New("API key required")
	// ErrInvalidAPIKey covers unknown, revoked, and status-less keys
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrInvalidCredentials covers bad email/password on dashboard login
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden means the caller does not own the addressed resource
	ErrForbidden = errors.New("forbidden")
)

// ErrSenderNotConfigured means the account has no usable sender identity.
// It is surfaced as an actionable message, not a generic failure.
var ErrSenderNotConfigured = errors.New("sender credentials are not configured, set your SMTP settings first")

// ValidationError marks a request rejected during input validation
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps an SMTP-level failure with its underlying detail
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
