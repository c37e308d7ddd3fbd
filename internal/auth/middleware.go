package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/safar/inventory-api/internal/apperr"
	"github.com/safar/inventory-api/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// ErrorWriter renders an error response. The API layer supplies its envelope
// writer so the gate and the handlers fail the same way.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authorize resolves a bearer token to its user.
func (s *Service) Authorize(ctx context.Context, token string) (*models.User, error) {
	return s.ResolveToken(ctx, token)
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func (s *Service) Middleware(writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, r, apperr.Unauthorized("not authenticated"))
				return
			}

			user, err := s.Authorize(r.Context(), token)
			if err != nil {
				if apperr.Is(err, apperr.KindUnauthorized) {
					w.Header().Set("WWW-Authenticate", "Bearer")
				}
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// BearerToken extracts the credential from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
