package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/safar/inventory-api/internal/apperr"
	"github.com/safar/inventory-api/internal/database"
)

const maxBodyBytes = 1 << 20

// errorResponse is the envelope every failure is rendered with.
type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode JSON response", slog.Any("error", err))
	}
}

func (s *Server) respondStatus(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{
		Error:      http.StatusText(status),
		Message:    message,
		StatusCode: status,
	})
}

// respondError maps err onto its status code. Internal errors are logged and
// replaced with a generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		err = database.TranslateError(err)
	}

	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	message := err.Error()
	if kind == apperr.KindInternal {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		message = "internal server error"
	}

	s.respondStatus(w, status, message)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is empty")
		case errors.As(err, &maxErr):
			return apperr.Validation("request body is too large")
		default:
			return apperr.Validation("invalid request body")
		}
	}

	return nil
}
