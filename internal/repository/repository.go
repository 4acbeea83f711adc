package repository

import (
	"context"
	"time"

	"gamestore/internal/discount"
	"gamestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves products with pagination support. An empty platform
	// returns every platform.
	GetAll(ctx context.Context, limit, offset int, platform string) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}

// DiscountCodeRepository is the PostgreSQL discount code store plus the
// administrative operations on codes.
type DiscountCodeRepository interface {
	discount.Store

	// Create inserts a new code. A duplicate code returns model.ErrDiscountCodeExists.
	Create(ctx context.Context, code *model.DiscountCode) error

	// GetByID retrieves a code by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error)

	// List retrieves codes ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]model.DiscountCode, error)

	// SetActive sets the active flag and returns the updated code.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.DiscountCode, error)

	// Extend replaces the end of the validity window and returns the updated code.
	Extend(ctx context.Context, id uuid.UUID, validUntil time.Time) (*model.DiscountCode, error)

	// Delete removes a code that was never redeemed, or deactivates it when
	// usages exist. It reports whether the code was only deactivated.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ListUsages retrieves the ledger rows of a code, oldest first.
	ListUsages(ctx context.Context, id uuid.UUID) ([]model.DiscountCodeUsage, error)
}
