package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devready/code-runner/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
// Every error body has the same shape regardless of status code, so callers
// always know what fields to expect.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type (e.g. "validation_error")
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must go out before the body; once Encode writes,
// header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code.
//
// This is the single place where apperror sentinels become status codes; the
// service layer stays HTTP-agnostic. errors.Is walks the wrap chain, so
// wrapped AppErrors still match.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrExecution):
			// The process could not be run at all, distinct from a snippet
			// that ran and failed, which is a 200 with a non-zero exit code.
			status = http.StatusInternalServerError
			errorType = "execution_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error: never expose internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
