package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/safar/inventory-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mustCreateUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	user, err := CreateUser(context.Background(), db, "Test User", email, "$2a$04$notarealhash")
	require.NoError(t, err)
	return user
}

func mustCreateCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()
	category, err := CreateCategory(context.Background(), db, CategoryInput{Name: name})
	require.NoError(t, err)
	return category
}

func mustCreateProduct(t *testing.T, db *sql.DB, categoryID, ownerID uuid.UUID, stock int) *models.Product {
	t.Helper()
	product, err := CreateProduct(context.Background(), db, ProductInput{
		Name:          "Hammer",
		Price:         decimal.NewFromInt(10),
		StockQuantity: stock,
		CategoryID:    categoryID,
	}, ownerID)
	require.NoError(t, err)
	return product
}
