package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/safar/inventory-api/internal/apperr"
	"github.com/safar/inventory-api/internal/database"
	"github.com/safar/inventory-api/internal/models"
)

const transactionColumns = `id, product_id, type, quantity, description, user_id, created_at`

type RecordTransactionRequest struct {
	ProductID   uuid.UUID
	Type        models.TransactionType
	Quantity    int
	Description *string
	ActorID     uuid.UUID
}

func scanTransaction(row interface{ Scan(...any) error }, txn *models.InventoryTransaction) error {
	return row.Scan(
		&txn.ID,
		&txn.ProductID,
		&txn.Type,
		&txn.Quantity,
		&txn.Description,
		&txn.UserID,
		&txn.CreatedAt,
	)
}

// RecordTransaction appends a stock movement and applies it to the product's
// stock counter as one unit. The product row is locked, the movement is
// validated against the current stock, the counter is adjusted with a
// conditional update and only then is the ledger row written. A rejected
// exit leaves neither a ledger row nor a stock change behind.
func RecordTransaction(ctx context.Context, db *sql.DB, req RecordTransactionRequest) (*models.InventoryTransaction, error) {
	if !req.Type.Valid() {
		return nil, apperr.Validation("transaction type must be %q or %q", models.TransactionEntry, models.TransactionExit)
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than zero")
	}

	var txn *models.InventoryTransaction

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		switch req.Type {
		case models.TransactionEntry:
			if _, err := LockProduct(ctx, tx, req.ProductID); err != nil {
				return err
			}
			if err := IncrementStock(ctx, tx, req.ProductID, req.Quantity); err != nil {
				return err
			}
		case models.TransactionExit:
			if _, err := ReserveStock(ctx, tx, req.ProductID, req.Quantity); err != nil {
				return err
			}
			if err := DecrementStock(ctx, tx, req.ProductID, req.Quantity); err != nil {
				return err
			}
		}

		txn = &models.InventoryTransaction{}
		err := scanTransaction(tx.QueryRowContext(ctx,
			`INSERT INTO inventory_transactions (product_id, type, quantity, description, user_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())
			 RETURNING `+transactionColumns,
			req.ProductID, req.Type, req.Quantity, req.Description, req.ActorID), txn)
		if err != nil {
			return fmt.Errorf("create inventory transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// LockProduct loads a product with a row lock held until the surrounding
// transaction ends.
func LockProduct(ctx context.Context, tx *sql.Tx, productID uuid.UUID) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	if err := scanProduct(tx.QueryRowContext(ctx, query, productID), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}

	return product, nil
}

// ReserveStock locks the product and checks it holds at least quantity units.
func ReserveStock(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity int) (*models.Product, error) {
	product, err := LockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if product.StockQuantity < quantity {
		return nil, database.ErrInsufficientStock
	}

	return product, nil
}

func IncrementStock(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity + $1,
		     updated_at = NOW()
		 WHERE id = $2`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// DecrementStock only matches while the stored quantity stays non-negative,
// so it can never drive stock below zero even without a prior lock.
func DecrementStock(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity - $1,
		     updated_at = NOW()
		 WHERE id = $2
		   AND stock_quantity >= $1`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrInsufficientStock
	}

	return nil
}

// GetTransaction returns a ledger row only when it belongs to productID.
func GetTransaction(ctx context.Context, q database.Querier, productID, transactionID uuid.UUID) (*models.InventoryTransaction, error) {
	txn := &models.InventoryTransaction{}

	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE product_id = $1 AND id = $2`

	if err := scanTransaction(q.QueryRowContext(ctx, query, productID, transactionID), txn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get inventory transaction: %w", err)
	}

	return txn, nil
}

func ListTransactions(ctx context.Context, q database.Querier, productID uuid.UUID, page Page) ([]models.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE product_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`

	rows, err := q.QueryContext(ctx, query, productID, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.InventoryTransaction{}
	for rows.Next() {
		var txn models.InventoryTransaction
		if err := scanTransaction(rows, &txn); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return txns, nil
}
