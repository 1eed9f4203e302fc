// Package render writes JSON responses and maps domain errors onto HTTP
// status codes.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"readyToHelp/pkg/e"
)

type Renderer struct {
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

func (r *Renderer) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		r.logger.Error("json encode failed", slog.Any("error", err))
	}
}

type ErrorBody struct {
	Error string `json:"error"`
}

// Error writes the status for err. Client errors carry the message, server
// errors a generic text.
func (r *Renderer) Error(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	r.JSON(w, code, ErrorBody{Error: msg})
}

// StatusFor maps domain sentinels to HTTP codes. An unmapped category is a
// routing table gap, not a client mistake, and stays a 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, e.ErrValidation), errors.Is(err, e.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, e.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, e.ErrDeadline):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
