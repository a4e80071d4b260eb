package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

type PromoCode struct {
	ID           int             `json:"id"`
	Code         string          `json:"code"`
	DiscountType string          `json:"discount_type"`
	Value        decimal.Decimal `json:"value"`
	IsActive     bool            `json:"is_active"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Expired reports whether the code has an expiry in the past. Codes without
// an expiry never expire.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Apply returns the total after discounting. Percent codes take
// total * value / 100, flat codes subtract value directly; the result is
// clamped at zero.
func (p *PromoCode) Apply(total decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal
	switch p.DiscountType {
	case DiscountPercent:
		discounted = total.Sub(total.Mul(p.Value).Div(decimal.NewFromInt(100)))
	case DiscountFlat:
		discounted = total.Sub(p.Value)
	default:
		discounted = total
	}
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}
