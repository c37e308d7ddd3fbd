package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	notFound := NotFound("product not found")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", notFound, KindNotFound},
		{"wrapped", fmt.Errorf("get product: %w", notFound), KindNotFound},
		{"validation", Validation("quantity must be greater than %d", 0), KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Conflict("email already registered"), KindConflict))
	assert.False(t, Is(Conflict("email already registered"), KindNotFound))
	assert.False(t, Is(nil, KindInternal))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusConflict, HTTPStatus(KindConflict))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Kind("other")))
}

func TestErrorMessage(t *testing.T) {
	err := Validation("%s must not be empty", "name")
	assert.Equal(t, "name must not be empty", err.Error())
}
