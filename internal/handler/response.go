package handler

// Response helpers. Every endpoint answers with the same envelope: a
// boolean "success" plus either a "message" or a payload key ("card",
// "cards", "exercises", "stats", ...). The helpers keep that shape in one
// place so handlers stay small.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quizzmate/backend/internal/apperror"
)

// envelope is the uniform response body. Handlers add payload keys next
// to "success" instead of nesting them.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, envelope{"success": success, "message": message})
}

// writeError maps a domain error to its HTTP status. The service layer
// returns apperror sentinels; nothing below the handler knows about
// status codes.
//
// Duplicate email maps to 400 (not 409) — that is the API's published
// behaviour and the frontend depends on it.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		writeMessage(w, status, false, appErr.Message)
		return
	}

	// Unknown error — storage or connectivity failure. Don't leak
	// internals (SQL text, file paths) to the client.
	writeMessage(w, http.StatusInternalServerError, false, "Internal server error")
}
