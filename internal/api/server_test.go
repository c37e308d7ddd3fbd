package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/safar/inventory-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	rec := doJSON(t, h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"message": "Hello World"}, decodeBody[map[string]string](t, rec))
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	for _, path := range []string{"/nope", "/products/a/b/c/d", "/products/categories/a/b"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)

		body := decodeBody[errorResponse](t, rec)
		assert.Equal(t, "Not Found", body.Error)
		assert.Equal(t, http.StatusNotFound, body.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	rec := doJSON(t, h, http.MethodPatch, "/products/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodDelete)
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})
	id := uuid.NewString()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/products/"},
		{http.MethodPost, "/products"},
		{http.MethodPut, "/products/" + id},
		{http.MethodDelete, "/products/" + id},
		{http.MethodPost, "/products/" + id + "/transactions"},
		{http.MethodPost, "/products/categories"},
		{http.MethodPut, "/products/categories/" + id},
		{http.MethodDelete, "/products/categories/" + id},
		{http.MethodGet, "/auth/me"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, "", map[string]any{})
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

			body := decodeBody[errorResponse](t, rec)
			assert.Equal(t, "Unauthorized", body.Error)
			assert.Equal(t, http.StatusUnauthorized, body.StatusCode)

			rec = doJSON(t, h, tt.method, tt.path, "garbage.token.value", map[string]any{})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRegisterLoginMe(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "A", "email": "A@X.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	user := decodeBody[models.User](t, rec)
	assert.Equal(t, "a@x.com", user.Email)

	rec = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doForm(t, h, "/auth/token", url.Values{"username": {"a@x.com"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = doJSON(t, h, http.MethodPost, "/auth/token", "", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token := decodeBody[tokenResponse](t, rec)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.Positive(t, token.ExpiresIn)

	rec = doJSON(t, h, http.MethodGet, "/auth/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decodeBody[models.User](t, rec).ID)
}

func TestRegisterValidation(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"missing email", map[string]string{"name": "A", "password": "pw"}, "email is required"},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "pw"}, "email must be a valid email address"},
		{"missing password", map[string]string{"name": "A", "email": "a@x.com"}, "password is required"},
		{"empty body", nil, "request body is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/auth/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeBody[errorResponse](t, rec)
			assert.Equal(t, "Bad Request", body.Error)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestProductAndTransactionValidation(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})
	token := registerAndLogin(t, h, "v@x.com", "secret")
	categoryID := uuid.NewString()

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		message string
	}{
		{
			name: "zero price", method: http.MethodPost, path: "/products/",
			body:    map[string]any{"name": "Hammer", "price": "0", "stock_quantity": 1, "category_id": categoryID},
			message: "price must be greater than zero",
		},
		{
			name: "sub-cent price", method: http.MethodPost, path: "/products/",
			body:    map[string]any{"name": "Hammer", "price": "0.001", "stock_quantity": 1, "category_id": categoryID},
			message: "price must have at most 2 decimal places",
		},
		{
			name: "price with three decimals", method: http.MethodPut, path: "/products/" + uuid.NewString(),
			body:    map[string]any{"name": "Hammer", "price": "12.345", "stock_quantity": 1, "category_id": categoryID},
			message: "price must have at most 2 decimal places",
		},
		{
			name: "price too large", method: http.MethodPost, path: "/products/",
			body:    map[string]any{"name": "Hammer", "price": "10000000000", "stock_quantity": 1, "category_id": categoryID},
			message: "price must be less than 10000000000",
		},
		{
			name: "stock beyond integer column", method: http.MethodPost, path: "/products/",
			body:    map[string]any{"name": "Hammer", "price": "10", "stock_quantity": 3000000000, "category_id": categoryID},
			message: "stock_quantity must be at most 2147483647",
		},
		{
			name: "quantity beyond integer column", method: http.MethodPost, path: "/products/" + uuid.NewString() + "/transactions",
			body:    map[string]any{"type": "entry", "quantity": 3000000000},
			message: "quantity must be at most 2147483647",
		},
		{
			name: "zero stock on create", method: http.MethodPost, path: "/products/",
			body:    map[string]any{"name": "Hammer", "price": "10", "stock_quantity": 0, "category_id": categoryID},
			message: "stock_quantity must be greater than 0",
		},
		{
			name: "negative stock on update", method: http.MethodPut, path: "/products/" + uuid.NewString(),
			body:    map[string]any{"name": "Hammer", "price": "10", "stock_quantity": -1, "category_id": categoryID},
			message: "stock_quantity must be at least 0",
		},
		{
			name: "missing category", method: http.MethodPost, path: "/products/",
			body:    map[string]any{"name": "Hammer", "price": "10", "stock_quantity": 1},
			message: "category_id is required",
		},
		{
			name: "unknown movement type", method: http.MethodPost, path: "/products/" + uuid.NewString() + "/transactions",
			body:    map[string]any{"type": "transfer", "quantity": 1},
			message: "type must be one of: entry, exit",
		},
		{
			name: "zero quantity", method: http.MethodPost, path: "/products/" + uuid.NewString() + "/transactions",
			body:    map[string]any{"type": "exit", "quantity": 0},
			message: "quantity must be greater than 0",
		},
		{
			name: "missing category name", method: http.MethodPost, path: "/products/categories",
			body:    map[string]any{"description": "x"},
			message: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, token, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.message, decodeBody[errorResponse](t, rec).Message)
		})
	}
}

func TestInvalidPathIDIsNotFound(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	for _, path := range []string{
		"/products/not-a-uuid",
		"/products/categories/not-a-uuid",
		"/products/" + uuid.NewString() + "/transactions/not-a-uuid",
	} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPaginationValidation(t *testing.T) {
	h := newTestHandler(t, nil, &memoryUsers{})

	for _, query := range []string{"?skip=-1", "?limit=0", "?limit=abc"} {
		rec := doJSON(t, h, http.MethodGet, "/products/"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestPriceWithTrailingZerosIsAccepted(t *testing.T) {
	req := productRequest{
		Name:          "Hammer",
		Price:         decimal.RequireFromString("12.500"),
		StockQuantity: 1,
		CategoryID:    uuid.New(),
	}
	assert.NoError(t, req.validate())
}

func TestRespondErrorTranslatesDriverFailures(t *testing.T) {
	s := NewServer(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"check violation", fmt.Errorf("create product: %w", &pq.Error{Code: "23514"}), http.StatusBadRequest, "value is out of the allowed range"},
		{"integer overflow", fmt.Errorf("increment stock: %w", &pq.Error{Code: "22003"}), http.StatusBadRequest, "numeric value is out of range"},
		{"connection failure", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.respondError(rec, httptest.NewRequest(http.MethodPost, "/products/", nil), tt.err)

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody[errorResponse](t, rec).Message)
		})
	}
}
