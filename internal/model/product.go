package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a game in the catalogue.
type Product struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Platform   string    `json:"platform" db:"platform"`
	Genre      string    `json:"genre" db:"genre"`
	PriceCents int64     `json:"priceCents" db:"price_cents"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// FormatCents renders a minor-unit amount as a two decimal string.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
