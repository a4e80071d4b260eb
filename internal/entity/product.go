package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	CategoryID *int            `json:"category_id,omitempty"`
	Category   *Category       `json:"category,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Images     []ProductImage  `json:"images"`
}
