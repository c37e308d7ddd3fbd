package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/safar/inventory-api/internal/database"
	"github.com/safar/inventory-api/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, price, stock_quantity, image_url, category_id, user_id, created_at, updated_at`

// ProductInput holds the mutable product fields. Range checks on Price and
// StockQuantity happen at the request boundary.
type ProductInput struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      *string
	CategoryID    uuid.UUID
}

func scanProduct(row interface{ Scan(...any) error }, product *models.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.StockQuantity,
		&product.ImageURL,
		&product.CategoryID,
		&product.UserID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}

func CreateProduct(ctx context.Context, q database.Querier, in ProductInput, ownerID uuid.UUID) (*models.Product, error) {
	exists, err := CategoryExists(ctx, q, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrCategoryNotFound
	}

	product := &models.Product{}

	query := `
		INSERT INTO products (name, description, price, stock_quantity, image_url, category_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + productColumns

	err = scanProduct(q.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Price, in.StockQuantity, in.ImageURL, in.CategoryID, ownerID), product)
	if err != nil {
		// The category can disappear between the check and the insert.
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, q database.Querier, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	if err := scanProduct(q.QueryRowContext(ctx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func ListProducts(ctx context.Context, q database.Querier, page Page) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// UpdateProduct replaces every mutable field, stock_quantity included. The
// target category must exist.
func UpdateProduct(ctx context.Context, q database.Querier, id uuid.UUID, in ProductInput) (*models.Product, error) {
	product := &models.Product{}

	query := `
		UPDATE products
		SET name = $1,
		    description = $2,
		    price = $3,
		    stock_quantity = $4,
		    image_url = $5,
		    category_id = $6,
		    updated_at = NOW()
		WHERE id = $7
		RETURNING ` + productColumns

	err := scanProduct(q.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Price, in.StockQuantity, in.ImageURL, in.CategoryID, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes the product and returns its last state. Ledger rows
// for the product are left in place.
func DeleteProduct(ctx context.Context, q database.Querier, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}

	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	if err := scanProduct(q.QueryRowContext(ctx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}

	return product, nil
}
