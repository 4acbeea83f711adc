package discount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamestore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Validator decides whether discount codes apply and performs the
// bookkeeping of a redemption.
//
// A redemption is exactly one IncrementUsage followed by one RecordUsage.
// The Validator holds no state between calls; the usage ceiling is enforced
// by the Store.
type Validator struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used for validity windows.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a new discount code validator.
func NewValidator(store Store, logger zerolog.Logger, opts ...Option) *Validator {
	v := &Validator{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "discount-validator").Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate looks up a code and checks it against the validity rules.
//
// Rule failures, including an unknown code, are reported through the
// result's Reason and never as an error. The returned error is only set
// when the store could not be queried, and then wraps
// model.ErrStoreUnavailable. The discount amount is calculated only when a
// cart is supplied and the code applies.
func (v *Validator) Validate(ctx context.Context, code string, cart *model.CartContext) (*model.ValidationResult, error) {
	normalised := NormalizeCode(code)
	if normalised == "" {
		return notFoundResult(normalised), nil
	}

	dc, err := v.store.GetByCode(ctx, normalised)
	if err != nil {
		v.logger.Error().Err(err).Str("code", normalised).Msg("failed to look up discount code")
		return nil, storeError("failed to look up discount code", err)
	}

	if dc == nil {
		v.logger.Debug().Str("code", normalised).Msg("discount code not found")
		return notFoundResult(normalised), nil
	}

	result := &model.ValidationResult{DiscountCode: *dc}

	if reason := Evaluate(dc, cart, v.now()); reason != "" {
		v.logger.Debug().
			Str("code", normalised).
			Str("reason", string(reason)).
			Msg("discount code rejected")
		result.Reason = reason
		return result, nil
	}

	result.IsValid = true
	if cart != nil {
		amount := CalculateAmount(dc.DiscountType, dc.DiscountValue, cart.CurrentCartAmount)
		result.DiscountAmountCalculated = &amount
	}

	return result, nil
}

// IncrementUsage consumes one use of a code.
//
// When the code has already reached max_uses nothing is written and the
// current counter is returned with Incremented set to false. An unknown id
// returns model.ErrDiscountCodeNotFound.
func (v *Validator) IncrementUsage(ctx context.Context, id uuid.UUID) (*model.UsageCounter, error) {
	counter, err := v.store.IncrementUsesCount(ctx, id)
	if err != nil {
		v.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to increment usage")
		return nil, storeError("failed to increment discount code usage", err)
	}

	if counter == nil {
		v.logger.Warn().Str("discount_code_id", id.String()).Msg("discount code not found on increment")
		return nil, model.ErrDiscountCodeNotFound
	}

	if !counter.Incremented {
		v.logger.Warn().
			Str("discount_code_id", id.String()).
			Int("uses_count", counter.UsesCount).
			Msg("usage ceiling already reached")
		return counter, nil
	}

	v.logger.Debug().
		Str("discount_code_id", id.String()).
		Int("uses_count", counter.UsesCount).
		Msg("discount code usage incremented")

	return counter, nil
}

// RecordUsage appends one ledger row for a completed redemption.
func (v *Validator) RecordUsage(ctx context.Context, in *model.UsageRecordInput) (*model.DiscountCodeUsage, error) {
	if in == nil {
		return nil, fmt.Errorf("usage data is nil")
	}
	if in.DiscountCodeID == uuid.Nil {
		return nil, fmt.Errorf("discount code ID is required")
	}
	if in.OrderID == uuid.Nil {
		return nil, fmt.Errorf("order ID is required")
	}
	if in.DiscountAmount < 0 {
		return nil, fmt.Errorf("discount amount cannot be negative")
	}

	usage := &model.DiscountCodeUsage{
		ID:             uuid.New(),
		DiscountCodeID: in.DiscountCodeID,
		OrderID:        in.OrderID,
		Customer:       in.Customer,
		DiscountAmount: in.DiscountAmount,
		CreatedAt:      v.now().UTC(),
	}

	if err := v.store.InsertUsage(ctx, usage); err != nil {
		if errors.Is(err, model.ErrDiscountCodeNotFound) {
			return nil, err
		}
		v.logger.Error().
			Err(err).
			Str("discount_code_id", in.DiscountCodeID.String()).
			Str("order_id", in.OrderID.String()).
			Msg("failed to record discount code usage")
		return nil, storeError("failed to record discount code usage", err)
	}

	return usage, nil
}

// notFoundResult builds the placeholder result for an unknown code.
func notFoundResult(code string) *model.ValidationResult {
	return &model.ValidationResult{
		DiscountCode: model.DiscountCode{
			Code:         code,
			DiscountType: model.DiscountTypePercentage,
		},
		Reason: model.ReasonNotFound,
	}
}

// storeError makes sure a persistence failure matches model.ErrStoreUnavailable.
func storeError(msg string, err error) error {
	if errors.Is(err, model.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, model.ErrStoreUnavailable, err)
}
