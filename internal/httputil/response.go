package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string              `json:"error"`
	Code  apperrors.ErrorCode `json:"code"`
}

// WriteError writes an AppError as an HTTP response with appropriate status code.
// Errors that are not AppErrors are reported as a generic internal error.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("internal server error")
	}

	WriteJSON(w, StatusFromCode(appErr.Code), ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}

// StatusFromCode maps ErrorCode to HTTP status code
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeBadRequest,
		apperrors.ErrCodeValidation:
		return http.StatusBadRequest

	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized

	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	case apperrors.ErrCodeConflict:
		return http.StatusConflict

	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}
