package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. Ownership
// failures come back as 401 rather than 403, matching the API contract the
// clients were written against.
func writeError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	writeJSON(w, status, errorBody{Message: message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, core.ErrForbidden):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict, "Already exists"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

// writeMessage sends a fixed-status, fixed-message error body for the
// endpoints whose wording is part of the contract.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", core.ErrInvalidInput)
	}
	return nil
}
