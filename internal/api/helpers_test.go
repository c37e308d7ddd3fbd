package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/safar/inventory-api/internal/auth"
	"github.com/safar/inventory-api/internal/config"
	"github.com/safar/inventory-api/internal/database"
	"github.com/safar/inventory-api/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	if _, ok := m.users[email]; ok {
		return nil, database.ErrEmailTaken
	}
	user := &models.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash}
	m.users[email] = user
	return user, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return user, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:      "test-secret",
		Algorithm:      "HS256",
		AccessTokenTTL: 30 * time.Minute,
		HashCost:       bcrypt.MinCost,
	}
}

// newTestHandler builds the routed handler. db may be nil for tests that
// never reach the stores.
func newTestHandler(t *testing.T, db *sql.DB, users auth.UserStore) http.Handler {
	t.Helper()

	authService, err := auth.NewService(users, testAuthConfig())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(db, authService, logger).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func registerAndLogin(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doForm(t, h, "/auth/token", url.Values{"username": {email}, "password": {password}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decodeBody[tokenResponse](t, rec).AccessToken
}
