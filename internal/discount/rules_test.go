package discount

import (
	"testing"

	"gamestore/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAmount(t *testing.T) {
	tests := []struct {
		name         string
		discountType model.DiscountType
		value        int64
		cartTotal    int64
		expected     int64
	}{
		{"Percentage exact", model.DiscountTypePercentage, 20, 10000, 2000},
		{"Percentage rounds down below half", model.DiscountTypePercentage, 10, 1234, 123},
		{"Percentage rounds half away from zero", model.DiscountTypePercentage, 50, 1, 1},
		{"Percentage hundred", model.DiscountTypePercentage, 100, 4599, 4599},
		{"Percentage above hundred is capped", model.DiscountTypePercentage, 150, 1000, 1000},
		{"Zero percentage", model.DiscountTypePercentage, 0, 1000, 0},
		{"Fixed amount", model.DiscountTypeFixedAmount, 250, 1000, 250},
		{"Fixed amount equal to cart", model.DiscountTypeFixedAmount, 1000, 1000, 1000},
		{"Fixed amount over cart", model.DiscountTypeFixedAmount, 5000, 3000, 3000},
		{"Zero cart", model.DiscountTypeFixedAmount, 500, 0, 0},
		{"Negative value", model.DiscountTypeFixedAmount, -5, 1000, 0},
		{"Unknown type", model.DiscountType("bogo"), 10, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateAmount(tt.discountType, tt.value, tt.cartTotal))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode("save10"))
	assert.Equal(t, "SAVE10", NormalizeCode("  Save10\t"))
	assert.Equal(t, "", NormalizeCode("   "))
}
