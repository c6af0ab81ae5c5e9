package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeNotFound, "quote not found")
		assert.Equal(t, "NOT_FOUND: quote not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Internal("failed to create signature").WithCause(cause)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
		assert.Contains(t, err.Error(), "failed to create signature")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := Internal("something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
		expectedMsg  string
	}{
		{"Unauthorized", func() *AppError { return Unauthorized("session expired") }, ErrCodeUnauthorized, "session expired"},
		{"NotFound", func() *AppError { return NotFound("invoice") }, ErrCodeNotFound, "invoice not found"},
		{"BadRequest", func() *AppError { return BadRequest("payment insert failed") }, ErrCodeBadRequest, "payment insert failed"},
		{"ValidationError", func() *AppError { return ValidationError("title is required") }, ErrCodeValidation, "title is required"},
		{"Conflict", func() *AppError { return Conflict("duplicate") }, ErrCodeConflict, "duplicate"},
		{"RateLimitExceeded", RateLimitExceeded, ErrCodeRateLimitExceeded, "too many requests"},
		{"Internal", func() *AppError { return Internal("boom") }, ErrCodeInternal, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor()
			assert.Equal(t, tt.expectedCode, err.Code)
			assert.Equal(t, tt.expectedMsg, err.Message)
		})
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("unwraps wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", NotFound("quote"))
		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeNotFound, appErr.Code)
		assert.True(t, IsAppError(wrapped))
	})

	t.Run("plain errors are not AppErrors", func(t *testing.T) {
		_, ok := AsAppError(errors.New("plain"))
		assert.False(t, ok)
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
	})
}
