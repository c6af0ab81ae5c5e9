package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable identifier sent alongside the error message.
type ErrorCode string

const (
	// Authentication
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// Resource
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"

	// Rate Limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured error that can be returned to clients.
// The cause is logged but never serialized.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common error constructors

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "too many requests")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise ErrCodeInternal.
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
