// Package common defines shared constants, sentinel errors and small helpers
// used across the travel app server. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError wraps ErrorValidation with a human readable reason.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}

// ProviderError is returned when the payment provider answers with a
// non-success status or cannot be reached. Message is passed to clients
// verbatim.
type ProviderError struct {
	Message string
	// Detail, when set, is reported next to Message.
	Detail string
	// Data holds the decoded provider body, when there was one.
	Data any
}

func (e *ProviderError) Error() string {
	return "provider error: " + e.Message
}
