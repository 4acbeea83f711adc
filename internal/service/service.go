package service

import (
	"context"
	"time"

	"gamestore/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves products with pagination, optionally for one platform.
	GetAll(ctx context.Context, limit, offset int, platform string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder prices the cart, applies an optional discount code and
	// completes the redemption.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// DiscountValidator validates discount codes and books redemptions.
// It is implemented by *discount.Validator.
type DiscountValidator interface {
	Validate(ctx context.Context, code string, cart *model.CartContext) (*model.ValidationResult, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) (*model.UsageCounter, error)
	RecordUsage(ctx context.Context, usage *model.UsageRecordInput) (*model.DiscountCodeUsage, error)
}

// DiscountAdminService defines the administrative operations on discount codes.
type DiscountAdminService interface {
	// Create validates and stores a new code.
	Create(ctx context.Context, input *model.DiscountCodeInput) (*model.DiscountCode, error)

	// List retrieves codes with pagination.
	List(ctx context.Context, limit, offset int) ([]model.DiscountCode, error)

	// GetByCode retrieves a code by its code string.
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)

	// SetActive activates or deactivates a code.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.DiscountCode, error)

	// Extend moves the end of a code's validity window.
	Extend(ctx context.Context, id uuid.UUID, validUntil time.Time) (*model.DiscountCode, error)

	// Delete removes a code, or deactivates it when it has usages.
	Delete(ctx context.Context, id uuid.UUID) (*model.DeleteResult, error)

	// ListUsages retrieves the redemption ledger of a code.
	ListUsages(ctx context.Context, id uuid.UUID) ([]model.DiscountCodeUsage, error)

	// Import loads code definition files and creates the codes that do not exist yet.
	Import(ctx context.Context, paths []string) (*model.ImportResult, error)
}
