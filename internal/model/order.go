package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the bookkeeping state of an order.
type OrderStatus string

const (
	// OrderStatusPending marks an order whose discount redemption has not finished yet.
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order represents a customer order.
type Order struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	Customer       string      `json:"customer" db:"customer"`
	Status         OrderStatus `json:"status" db:"status"`
	SubtotalCents  int64       `json:"subtotalCents" db:"subtotal_cents"`
	DiscountCodeID *uuid.UUID  `json:"discountCodeId,omitempty" db:"discount_code_id"`
	DiscountCode   *string     `json:"discountCode,omitempty" db:"discount_code"`
	DiscountCents  int64       `json:"discountCents" db:"discount_cents"`
	TotalCents     int64       `json:"totalCents" db:"total_cents"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID             uuid.UUID `json:"-" db:"id"`
	OrderID        uuid.UUID `json:"-" db:"order_id"`
	ProductID      string    `json:"productId" db:"product_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents" db:"unit_price_cents"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	Customer     string             `json:"customer"`
	DiscountCode *string            `json:"discountCode,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID            uuid.UUID   `json:"id"`
	Customer      string      `json:"customer"`
	Status        OrderStatus `json:"status"`
	DiscountCode  *string     `json:"discountCode,omitempty"`
	SubtotalCents int64       `json:"subtotalCents"`
	DiscountCents int64       `json:"discountCents"`
	TotalCents    int64       `json:"totalCents"`
	Total         string      `json:"total"`
	Items         []OrderItem `json:"items"`
	Products      []Product   `json:"products"`
}

// NewOrderResponse builds the response payload for an order.
func NewOrderResponse(order *Order, items []OrderItem, products []Product) *OrderResponse {
	return &OrderResponse{
		ID:            order.ID,
		Customer:      order.Customer,
		Status:        order.Status,
		DiscountCode:  order.DiscountCode,
		SubtotalCents: order.SubtotalCents,
		DiscountCents: order.DiscountCents,
		TotalCents:    order.TotalCents,
		Total:         FormatCents(order.TotalCents),
		Items:         items,
		Products:      products,
	}
}
