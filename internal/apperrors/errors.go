// Package apperrors defines the error taxonomy shared by services and
// controllers. Services wrap these sentinels with context; controllers match
// them with errors.Is and translate them to HTTP statuses.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers bad URLs, bad aliases and missing query parameters.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when an identifier is already taken, either at
	// the pre-insert check or as a late unique-constraint violation.
	ErrConflict = errors.New("identifier already taken")

	// ErrNotFound covers unknown identifiers and soft-deleted entries alike.
	ErrNotFound = errors.New("short URL not found")

	// ErrExpired is returned when an entry exists but its expiration passed.
	ErrExpired = errors.New("short URL has expired")

	// ErrProtected is returned when a redirect requires a password.
	ErrProtected = errors.New("short URL is password protected")

	// ErrNotProtected is returned when verification is attempted against an
	// entry that has no password.
	ErrNotProtected = errors.New("short URL is not password protected")

	// ErrUnauthorized is returned when the supplied password does not match.
	ErrUnauthorized = errors.New("invalid password")

	// ErrRateLimited is returned by the rate-limit middleware.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Validationf wraps ErrValidation with a formatted reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Conflictf wraps ErrConflict with a formatted reason.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}
