package handler

// Every error body has the same shape:
//
//	{"error": "not_found", "message": "tool not found with id abc123"}
//
// Validation failures add a "fields" map (field -> message) and gateway
// failures add "retryable": true.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/toolscope/internal/apperror"
)

// ErrorResponse is the error body returned by every API endpoint.
type ErrorResponse struct {
	Error     string            `json:"error"`               // Machine-readable error type (e.g., "not_found")
	Message   string            `json:"message"`             // Human-readable description
	Fields    map[string]string `json:"fields,omitempty"`    // Per-field validation messages
	Retryable bool              `json:"retryable,omitempty"` // Set for gateway failures
}

// writeJSON sends a JSON response with the given status code.
// Headers and status go out before the body; later header changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent at this point, so all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
//	ErrValidation → 400 (with fields)
//	ErrNotFound   → 404
//	ErrGateway    → 503 (retryable)
//	anything else → 500, message hidden
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest // 400
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrGateway):
			status = http.StatusServiceUnavailable // 503
			errorType = "gateway_unavailable"
		}

		writeJSON(w, status, ErrorResponse{
			Error:     errorType,
			Message:   appErr.Message,
			Fields:    appErr.Fields,
			Retryable: appErr.Retryable(),
		})
		return
	}

	// Unknown error: generic 500. The raw message may hold SQL or file paths.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
