// Package handler contains the HTTP layer: request decoding, payload
// validation, and the mapping from domain errors to status codes.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/harulog/harulog/internal/apperror"
)

// ErrorResponse is the error body returned by every endpoint: a stable
// machine-readable code plus a human-readable detail.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// writeJSON sends a JSON response. Headers and status must be set before
// the first body byte; encode failures after that point can only be
// logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its status code and error body.
//
// Anything outside the apperror taxonomy becomes a bare 500: raw error
// text can carry SQL fragments or file paths and never reaches the client.
// Deadline and cancellation errors surface as 503 so a slow store reads as
// "try again", not as a generic server bug.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:  "unavailable",
			Detail: "the request timed out",
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		code := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			code = "validation_error"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			code = "unauthenticated"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			code = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			code = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			code = "conflict"
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
			code = "unavailable"
		}

		writeJSON(w, status, ErrorResponse{Error: code, Detail: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:  "internal_error",
		Detail: "an internal error occurred",
	})
}

// maxBodyBytes caps request bodies at the decode boundary. 1 MiB leaves
// generous room above the largest accepted field (diary content).
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst and converts malformed JSON
// into a validation error. Bodies over maxBodyBytes are cut off before the
// field-level caps ever run.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("", "request body too large")
		}
		return apperror.ValidationFailed("", "invalid JSON body")
	}
	return nil
}
