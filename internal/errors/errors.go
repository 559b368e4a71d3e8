package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeConnectivity = "CONNECTIVITY_ERROR"
	ErrCodeServer       = "SERVER_ERROR"
	ErrCodeUnavailable  = "UNAVAILABLE"
)

// AppError represents an application error with an HTTP status and error code.
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "CONNECTIVITY_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code for the local API surface
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewConflictError creates a new CONFLICT error, used for operations issued
// in an invalid session state (e.g. finishing an exam that never started).
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// NewConnectivityError creates a CONNECTIVITY_ERROR wrapping a transport
// failure. Connectivity errors are always retryable.
func NewConnectivityError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeConnectivity,
		Message: "backend unreachable",
		Status:  503,
		Err:     err,
	}
}

// NewServerError creates a SERVER_ERROR from a non-2xx backend response.
// The backend status code is preserved so callers can classify it.
func NewServerError(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", status)
	}
	return &AppError{
		Code:    ErrCodeServer,
		Message: message,
		Status:  status,
	}
}

// NewUnavailableError creates an UNAVAILABLE error for features whose
// external provider is not configured.
func NewUnavailableError(feature string) *AppError {
	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: fmt.Sprintf("%s is not available", feature),
		Status:  503,
	}
}

// IsRetryable reports whether a failed backend call is worth replaying.
// Transport failures and 5xx/429 responses are transient; other 4xx
// responses are terminal (re-sending the same payload cannot succeed).
// Unclassified errors are treated as retryable so that a drain pass never
// silently drops a mutation it cannot reason about.
func IsRetryable(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return true
	}
	switch appErr.Code {
	case ErrCodeConnectivity:
		return true
	case ErrCodeServer:
		return appErr.Status >= 500 || appErr.Status == 429
	default:
		return appErr.Status >= 500
	}
}

// IsConnectivity reports whether err is a transport-level failure.
func IsConnectivity(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == ErrCodeConnectivity
}
