package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/safar/inventory-api/internal/database"
	"github.com/safar/inventory-api/internal/models"
)

const categoryColumns = `id, name, description, created_at, updated_at`

type CategoryInput struct {
	Name        string
	Description *string
}

func scanCategory(row interface{ Scan(...any) error }, category *models.Category) error {
	return row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
}

func CreateCategory(ctx context.Context, q database.Querier, in CategoryInput) (*models.Category, error) {
	category := &models.Category{}

	query := `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + categoryColumns

	err := scanCategory(q.QueryRowContext(ctx, query, in.Name, in.Description), category)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

func GetCategory(ctx context.Context, q database.Querier, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	if err := scanCategory(q.QueryRowContext(ctx, query, id), category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return category, nil
}

func CategoryExists(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)",
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return exists, nil
}

func ListCategories(ctx context.Context, q database.Querier, page Page) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := scanCategory(rows, &category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

// UpdateCategory replaces the name and description of an existing category.
func UpdateCategory(ctx context.Context, q database.Querier, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	category := &models.Category{}

	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + categoryColumns

	err := scanCategory(q.QueryRowContext(ctx, query, in.Name, in.Description, id), category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrCategoryNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, database.ErrCategoryExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category and returns its last state. It refuses
// while any product still references the category.
func DeleteCategory(ctx context.Context, db *sql.DB, id uuid.UUID) (*models.Category, error) {
	var category *models.Category

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		locked := &models.Category{}
		err := scanCategory(tx.QueryRowContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`,
			id), locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return database.ErrCategoryNotFound
			}
			return fmt.Errorf("lock category: %w", err)
		}

		var inUse bool
		err = tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)",
			id).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("check category products: %w", err)
		}
		if inUse {
			return database.ErrCategoryInUse
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			if database.IsForeignKeyViolation(err) {
				return database.ErrCategoryInUse
			}
			return fmt.Errorf("delete category: %w", err)
		}

		category = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}
