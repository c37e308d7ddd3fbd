package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date_creation"`
	UpdatedAt    time.Time `json:"date_update"`
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"date_creation"`
	UpdatedAt   time.Time `json:"date_update"`
}

type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      *string         `json:"image_url"`
	CategoryID    uuid.UUID       `json:"category_id"`
	UserID        uuid.UUID       `json:"user_id"`
	CreatedAt     time.Time       `json:"date_creation"`
	UpdatedAt     time.Time       `json:"date_update"`
}

// InventoryTransaction is one stock movement. Rows are never updated or
// deleted once written.
type InventoryTransaction struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Type        TransactionType `json:"type"`
	Quantity    int             `json:"quantity"`
	Description *string         `json:"description"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"date_transaction"`
}

type TransactionType string

const (
	TransactionEntry TransactionType = "entry"
	TransactionExit  TransactionType = "exit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionEntry || t == TransactionExit
}
