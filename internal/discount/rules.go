package discount

import (
	"time"

	"gamestore/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate checks the validity rules of a code at the given instant and
// returns the first one that fails, or an empty reason when the code applies.
//
// Rules are checked in a fixed order: active flag, end of window, start of
// window, usage ceiling, minimum purchase. The minimum purchase rule only
// applies when a cart is supplied.
func Evaluate(code *model.DiscountCode, cart *model.CartContext, now time.Time) model.ValidationReason {
	if !code.IsActive {
		return model.ReasonInactive
	}

	if code.ValidUntil != nil && code.ValidUntil.Before(now) {
		return model.ReasonExpired
	}

	if code.ValidFrom != nil && code.ValidFrom.After(now) {
		return model.ReasonNotYetValid
	}

	if code.MaxUses != nil && code.UsesCount >= *code.MaxUses {
		return model.ReasonMaxUsesReached
	}

	if cart != nil && code.MinPurchaseAmount != nil && cart.CurrentCartAmount < *code.MinPurchaseAmount {
		return model.ReasonMinPurchaseNotMet
	}

	return ""
}

// CalculateAmount returns the discount a code grants on a cart total.
// Percentage discounts round half away from zero; fixed discounts never
// exceed the cart total.
func CalculateAmount(discountType model.DiscountType, value, cartTotal int64) int64 {
	if cartTotal <= 0 || value <= 0 {
		return 0
	}

	switch discountType {
	case model.DiscountTypePercentage:
		amount := decimal.NewFromInt(cartTotal).
			Mul(decimal.NewFromInt(value)).
			Div(hundred).
			Round(0).
			IntPart()
		if amount > cartTotal {
			return cartTotal
		}
		return amount
	case model.DiscountTypeFixedAmount:
		if value > cartTotal {
			return cartTotal
		}
		return value
	default:
		return 0
	}
}
