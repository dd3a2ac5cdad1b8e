package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vie2206/solo-legalight-sub007/internal/service/study"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, study.ErrInvalidQuality),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, study.ErrSessionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, study.ErrCardSuspended),
		errors.Is(err, study.ErrSessionExhausted),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, study.ErrInvalidQuality):
		return "Invalid answer quality"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDeckConfigNotFound):
		return "Deck configuration not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, study.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, study.ErrCardSuspended):
		return "Card is suspended"

	case errors.Is(err, study.ErrSessionExhausted):
		return "No cards remain in this session"

	case errors.Is(err, store.ErrConflict):
		return "Card was modified concurrently, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError returns a user-friendly message for a
// validator.ValidationErrors value without echoing request contents.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()
	if !strings.Contains(errMsg, "Field validation") {
		return "Validation error"
	}

	// Example format: "Key: 'AnswerRequest.Quality' Error:Field validation
	// for 'Quality' failed on the 'min' tag"
	parts := strings.Split(errMsg, "Error:")
	if len(parts) < 2 {
		return "Validation error"
	}
	fieldParts := strings.Split(parts[1], "'")
	if len(fieldParts) < 3 {
		return "Validation error"
	}

	return "Invalid " + fieldParts[1]
}
