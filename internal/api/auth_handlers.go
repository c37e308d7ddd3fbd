package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/safar/inventory-api/internal/apperr"
	"github.com/safar/inventory-api/internal/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.auth.Register(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "user registered", slog.String("user_id", user.ID.String()))
	s.respondJSON(w, http.StatusOK, user)
}

// handleToken accepts the OAuth2 password form (username, password) or a
// JSON body with email and password.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			s.respondError(w, r, apperr.Validation("invalid form body"))
			return
		}
		req.Email = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	if err := validateStruct(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		s.respondError(w, r, err)
		return
	}

	token, expiresAt, err := s.auth.IssueAccessToken(user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, r, auth.ErrInvalidToken)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}
