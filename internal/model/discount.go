package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType is the way a discount value is applied to a cart.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// IsValid reports whether t is a known discount type.
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixedAmount
}

// ValidationReason explains why a discount code was rejected.
type ValidationReason string

const (
	ReasonNotFound          ValidationReason = "not_found"
	ReasonInactive          ValidationReason = "inactive"
	ReasonExpired           ValidationReason = "expired"
	ReasonNotYetValid       ValidationReason = "not_yet_valid"
	ReasonMaxUsesReached    ValidationReason = "max_uses_reached"
	ReasonMinPurchaseNotMet ValidationReason = "min_purchase_not_met"
)

// DiscountCode represents a redeemable discount code.
// Amounts are in minor currency units. DiscountValue holds percentage points
// for percentage codes.
type DiscountCode struct {
	ID                   uuid.UUID    `json:"id" db:"id"`
	Code                 string       `json:"code" db:"code"`
	Description          string       `json:"description" db:"description"`
	DiscountType         DiscountType `json:"discountType" db:"discount_type"`
	DiscountValue        int64        `json:"discountValue" db:"discount_value"`
	MinPurchaseAmount    *int64       `json:"minPurchaseAmount,omitempty" db:"min_purchase_amount"`
	MaxUses              *int         `json:"maxUses,omitempty" db:"max_uses"`
	MaxUsesPerCustomer   *int         `json:"maxUsesPerCustomer,omitempty" db:"max_uses_per_customer"`
	ValidFrom            *time.Time   `json:"validFrom,omitempty" db:"valid_from"`
	ValidUntil           *time.Time   `json:"validUntil,omitempty" db:"valid_until"`
	IsActive             bool         `json:"isActive" db:"is_active"`
	UsesCount            int          `json:"usesCount" db:"uses_count"`
	ApplicableProductIDs []string     `json:"applicableProductIds,omitempty" db:"applicable_product_ids"`
	CreatedAt            time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time    `json:"updatedAt" db:"updated_at"`
}

// DiscountCodeUsage is one row of the append-only redemption ledger.
type DiscountCodeUsage struct {
	ID             uuid.UUID `json:"id" db:"id"`
	DiscountCodeID uuid.UUID `json:"discountCodeId" db:"discount_code_id"`
	OrderID        uuid.UUID `json:"orderId" db:"order_id"`
	Customer       string    `json:"customer" db:"customer"`
	DiscountAmount int64     `json:"discountAmount" db:"discount_amount"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// UsageRecordInput is the data needed to append a ledger row.
type UsageRecordInput struct {
	DiscountCodeID uuid.UUID
	OrderID        uuid.UUID
	Customer       string
	DiscountAmount int64
}

// UsageCounter is the narrow view of a code's usage state.
// Incremented is false when an increment was refused because the ceiling
// had already been reached.
type UsageCounter struct {
	UsesCount   int  `json:"usesCount"`
	MaxUses     *int `json:"maxUses,omitempty"`
	Incremented bool `json:"incremented"`
}

// CartContext describes the cart a code is checked against.
type CartContext struct {
	CurrentCartAmount int64    `json:"currentCartAmount"`
	ProductIDs        []string `json:"productIds,omitempty"`
}

// ValidationResult is the outcome of validating a code. When Reason is
// not_found the embedded DiscountCode holds placeholder values only.
type ValidationResult struct {
	DiscountCode
	IsValid                  bool             `json:"isValid"`
	Reason                   ValidationReason `json:"reason,omitempty"`
	DiscountAmountCalculated *int64           `json:"discountAmountCalculated,omitempty"`
}

// ValidateRequest represents the request payload for checking a code.
type ValidateRequest struct {
	Code string       `json:"code"`
	Cart *CartContext `json:"cart,omitempty"`
}

// DiscountCodeInput is an administrator supplied code definition.
type DiscountCodeInput struct {
	Code                 string       `json:"code"`
	Description          string       `json:"description"`
	DiscountType         DiscountType `json:"discountType"`
	DiscountValue        int64        `json:"discountValue"`
	MinPurchaseAmount    *int64       `json:"minPurchaseAmount,omitempty"`
	MaxUses              *int         `json:"maxUses,omitempty"`
	MaxUsesPerCustomer   *int         `json:"maxUsesPerCustomer,omitempty"`
	ValidFrom            *time.Time   `json:"validFrom,omitempty"`
	ValidUntil           *time.Time   `json:"validUntil,omitempty"`
	IsActive             *bool        `json:"isActive,omitempty"`
	ApplicableProductIDs []string     `json:"applicableProductIds,omitempty"`
}

// SetActiveRequest toggles the active flag of a code.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// ExtendRequest moves the end of a code's validity window.
type ExtendRequest struct {
	ValidUntil *time.Time `json:"validUntil"`
}

// DeleteResult reports how a code was removed.
type DeleteResult struct {
	ID          uuid.UUID `json:"id"`
	SoftDeleted bool      `json:"softDeleted"`
}

// ImportRequest lists the code files to import.
type ImportRequest struct {
	Paths []string `json:"paths"`
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Loaded  int      `json:"loaded"`
	Created int      `json:"created"`
	Skipped []string `json:"skipped,omitempty"`
}
