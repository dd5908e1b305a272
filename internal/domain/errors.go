package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// UpstreamError indicates the external model call failed or returned
	// unusable output
	UpstreamError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *UpstreamError) Error() string     { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *UpstreamError) StatusCode() int     { return http.StatusInternalServerError }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrUpstream marks a failed external model invocation. The user message
	// persisted before the call is intentionally not rolled back.
	ErrUpstream = errors.New("upstream generation failed")

	// ErrMalformedHistory marks a client-supplied transcript entry with no
	// extractable text or an unknown role.
	ErrMalformedHistory = errors.New("malformed history entry")
)

// Is allows errors.Is() to match UpstreamError against ErrUpstream
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
