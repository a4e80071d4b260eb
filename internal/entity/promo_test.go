package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPromoApply(t *testing.T) {
	t.Run("percent discount", func(t *testing.T) {
		promo := &PromoCode{DiscountType: DiscountPercent, Value: decimal.NewFromInt(10)}
		total := promo.Apply(decimal.NewFromInt(100))
		assert.True(t, total.Equal(decimal.NewFromInt(90)), "got %s", total)
	})

	t.Run("flat discount", func(t *testing.T) {
		promo := &PromoCode{DiscountType: DiscountFlat, Value: decimal.NewFromInt(30)}
		total := promo.Apply(decimal.NewFromInt(100))
		assert.True(t, total.Equal(decimal.NewFromInt(70)), "got %s", total)
	})

	t.Run("flat discount clamps at zero", func(t *testing.T) {
		promo := &PromoCode{DiscountType: DiscountFlat, Value: decimal.NewFromInt(50)}
		total := promo.Apply(decimal.NewFromInt(30))
		assert.True(t, total.Equal(decimal.Zero), "got %s", total)
	})

	t.Run("full percent discount clamps at zero", func(t *testing.T) {
		promo := &PromoCode{DiscountType: DiscountPercent, Value: decimal.NewFromInt(150)}
		total := promo.Apply(decimal.NewFromInt(40))
		assert.True(t, total.Equal(decimal.Zero), "got %s", total)
	})

	t.Run("fractional percent", func(t *testing.T) {
		promo := &PromoCode{DiscountType: DiscountPercent, Value: decimal.NewFromInt(25)}
		total := promo.Apply(decimal.RequireFromString("99.99"))
		assert.True(t, total.Equal(decimal.RequireFromString("74.9925")), "got %s", total)
	})
}

func TestPromoExpired(t *testing.T) {
	now := time.Now()

	t.Run("no expiry never expires", func(t *testing.T) {
		promo := &PromoCode{}
		assert.False(t, promo.Expired(now))
	})

	t.Run("past expiry", func(t *testing.T) {
		past := now.Add(-time.Hour)
		promo := &PromoCode{ExpiresAt: &past}
		assert.True(t, promo.Expired(now))
	})

	t.Run("future expiry", func(t *testing.T) {
		future := now.Add(time.Hour)
		promo := &PromoCode{ExpiresAt: &future}
		assert.False(t, promo.Expired(now))
	})
}
