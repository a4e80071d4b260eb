package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is immutable once created; only the checkout engine writes it.
type Order struct {
	ID          int             `json:"id"`
	CustomerID  int             `json:"customer"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem snapshots a purchased product. PriceAtPurchase is the product's
// price at the moment of checkout and never tracks later price changes.
type OrderItem struct {
	ID              int             `json:"id"`
	OrderID         int             `json:"-"`
	ProductID       int             `json:"-"`
	Product         *Product        `json:"product,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}
