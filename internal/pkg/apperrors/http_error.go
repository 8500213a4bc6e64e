package apperrors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an application error code
type ErrorCode string

// Error codes. These map to the taxonomy kinds in spec §7, not 1:1 to Go
// types: several constructors below can produce the same kind with a
// different message.
const (
	ErrInvalidRequest          ErrorCode = "INVALID_REQUEST"
	ErrUnauthorized            ErrorCode = "UNAUTHORIZED"
	ErrForbidden               ErrorCode = "FORBIDDEN"
	ErrNotFound                ErrorCode = "NOT_FOUND"
	ErrPayloadTooLarge         ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrAuthorizationDenied     ErrorCode = "AUTHORIZATION_ERROR"
	ErrInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrIntegrity               ErrorCode = "INTEGRITY_ERROR"
	ErrTransport               ErrorCode = "TRANSPORT_ERROR"
	ErrInternalError           ErrorCode = "INTERNAL_ERROR"
	ErrRateLimitExceeded       ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// HTTPError represents an HTTP error with code and details
type HTTPError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Details    interface{}
	Err        error
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// New creates a new HTTPError
func New(statusCode int, code ErrorCode, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewWithDetails creates a new HTTPError with details
func NewWithDetails(statusCode int, code ErrorCode, message string, details interface{}) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// Wrap wraps an existing error
func Wrap(statusCode int, code ErrorCode, message string, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// Common error constructors, one per taxonomy kind in spec §7.

func InvalidInput(message string) *HTTPError {
	return New(http.StatusBadRequest, ErrInvalidRequest, message)
}

func Unauthorized(message string) *HTTPError {
	return New(http.StatusUnauthorized, ErrUnauthorized, message)
}

func Forbidden(message string) *HTTPError {
	return New(http.StatusForbidden, ErrForbidden, message)
}

func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, ErrNotFound, message)
}

func PayloadTooLarge(message string) *HTTPError {
	return New(http.StatusRequestEntityTooLarge, ErrPayloadTooLarge, message)
}

// AuthorizationDenied signals a failed capability check: 403, code
// AUTHORIZATION_ERROR per spec §4.7/§7 — distinct from a generic Forbidden.
func AuthorizationDenied(message string) *HTTPError {
	return New(http.StatusForbidden, ErrAuthorizationDenied, message)
}

func InvalidStatusTransition(from, to string) *HTTPError {
	return New(http.StatusBadRequest, ErrInvalidStatusTransition,
		fmt.Sprintf("Invalid status transition from %s to %s", from, to))
}

// Integrity signals a size/checksum/archive-signature failure. Rolling back
// any remote side effect (e.g. deleting the object) is the caller's job;
// this only shapes the HTTP response.
func Integrity(message string) *HTTPError {
	return New(http.StatusInternalServerError, ErrIntegrity, message)
}

func Transport(message string, err error) *HTTPError {
	return Wrap(http.StatusInternalServerError, ErrTransport, message, err)
}

func InternalError(message string, err error) *HTTPError {
	return Wrap(http.StatusInternalServerError, ErrInternalError, message, err)
}

func RateLimitExceeded(retryAfter int) *HTTPError {
	return NewWithDetails(
		http.StatusTooManyRequests,
		ErrRateLimitExceeded,
		"Too many requests. Please try again later.",
		map[string]int{"retry_after": retryAfter},
	)
}
