// Package response writes the versioned JSON envelope for responses produced
// outside huma operations, such as router-level 404 and 405 replies.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

// Version is the "v" field of every response body.
const Version = 1

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data any) Envelope {
	return Envelope{Version: Version, Success: true, Data: data}
}

// Failure builds an error envelope.
func Failure(code domainerrors.Code, message string, details any) Envelope {
	return Envelope{
		Version: Version,
		Success: false,
		Error:   message,
		Code:    string(code),
		Message: message,
		Details: details,
	}
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// NotFound writes a 404 for a path no route matches.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusNotFound, Failure(domainerrors.CodeNotFound, "no route for "+r.URL.Path, nil), logger)
	}
}

// MethodNotAllowed writes a 405 for a known path with the wrong method.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusMethodNotAllowed, Failure(domainerrors.CodeValidation, r.Method+" is not allowed on "+r.URL.Path, nil), logger)
	}
}

// HandleError writes the envelope for err. Domain errors keep their code and
// status; anything else is logged and becomes a 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		JSON(w, domainErr.HTTPStatus(), Failure(domainErr.Code, domainErr.Message, domainErr.Details), logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	JSON(w, http.StatusInternalServerError, Failure(domainerrors.CodeInternal, "internal server error", nil), logger)
}
