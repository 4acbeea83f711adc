package discount

import (
	"context"
	"strings"

	"gamestore/internal/model"

	"github.com/google/uuid"
)

// Store is the persistence collaborator of the Validator.
//
// Lookups return nil, nil when the code does not exist. Any other failure
// must be returned as an error.
type Store interface {
	// GetByCode retrieves a discount code by its normalised code string.
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)

	// GetCounter retrieves only the usage counter of a code.
	GetCounter(ctx context.Context, id uuid.UUID) (*model.UsageCounter, error)

	// IncrementUsesCount adds one to uses_count in a single conditional
	// update that refuses to pass max_uses. When the ceiling is already
	// reached the current counter is returned with Incremented set to false.
	IncrementUsesCount(ctx context.Context, id uuid.UUID) (*model.UsageCounter, error)

	// InsertUsage appends a row to the usage ledger.
	InsertUsage(ctx context.Context, usage *model.DiscountCodeUsage) error
}

// Loader defines the interface for loading discount code definition files.
type Loader interface {
	// Load reads a gzipped CSV file and returns the code definitions it holds.
	Load(ctx context.Context, path string) ([]model.DiscountCodeInput, error)
}

// NormalizeCode returns the canonical stored form of a code.
// Codes are stored and compared upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
