package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-service/internal/entity"
	"store-service/internal/repository"
)

type fakeOrderStore struct {
	subtotal decimal.Decimal
	err      error
	result   *repository.CheckoutResult

	called   bool
	gotTotal decimal.Decimal
}

func (f *fakeOrderStore) CreateOrderFromCart(ctx context.Context, userID int, applyDiscount func(decimal.Decimal) decimal.Decimal) (*repository.CheckoutResult, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	f.gotTotal = applyDiscount(f.subtotal)
	if f.result != nil {
		return f.result, nil
	}
	return &repository.CheckoutResult{
		Order: &entity.Order{
			ID:          1,
			CustomerID:  userID,
			TotalAmount: f.gotTotal,
			Items:       []entity.OrderItem{},
		},
		RemainingStock: map[int]int{},
	}, nil
}

type fakePromos struct {
	codes map[string]*entity.PromoCode
}

func (f *fakePromos) GetActiveByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	promo, ok := f.codes[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return promo, nil
}

type fakeEvents struct {
	messages []kafka.Message
}

func (f *fakeEvents) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.messages = append(f.messages, msgs...)
	return nil
}

func TestCheckoutPromoResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code fails before the transaction", func(t *testing.T) {
		orders := &fakeOrderStore{subtotal: decimal.NewFromInt(100)}
		svc := NewCheckoutService(orders, &fakePromos{codes: map[string]*entity.PromoCode{}}, nil, nil, nil)

		_, err := svc.Checkout(ctx, 1, "NOPE")
		assert.ErrorIs(t, err, ErrInvalidPromo)
		assert.False(t, orders.called)
	})

	t.Run("expired code fails before the transaction", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		promos := &fakePromos{codes: map[string]*entity.PromoCode{
			"OLD": {Code: "OLD", DiscountType: entity.DiscountPercent, Value: decimal.NewFromInt(10), IsActive: true, ExpiresAt: &past},
		}}
		orders := &fakeOrderStore{subtotal: decimal.NewFromInt(100)}
		svc := NewCheckoutService(orders, promos, nil, nil, nil)

		_, err := svc.Checkout(ctx, 1, "OLD")
		assert.ErrorIs(t, err, ErrExpiredPromo)
		assert.False(t, orders.called)
	})
}

func TestCheckoutDiscounts(t *testing.T) {
	ctx := context.Background()

	t.Run("percent promo reduces total by subtotal*value/100", func(t *testing.T) {
		promos := &fakePromos{codes: map[string]*entity.PromoCode{
			"SAVE10": {Code: "SAVE10", DiscountType: entity.DiscountPercent, Value: decimal.NewFromInt(10), IsActive: true},
		}}
		orders := &fakeOrderStore{subtotal: decimal.NewFromInt(100)}
		svc := NewCheckoutService(orders, promos, nil, nil, nil)

		_, err := svc.Checkout(ctx, 1, "SAVE10")
		require.NoError(t, err)
		assert.True(t, orders.gotTotal.Equal(decimal.NewFromInt(90)), "got %s", orders.gotTotal)
	})

	t.Run("flat promo subtracts value", func(t *testing.T) {
		promos := &fakePromos{codes: map[string]*entity.PromoCode{
			"TAKE25": {Code: "TAKE25", DiscountType: entity.DiscountFlat, Value: decimal.NewFromInt(25), IsActive: true},
		}}
		orders := &fakeOrderStore{subtotal: decimal.NewFromInt(100)}
		svc := NewCheckoutService(orders, promos, nil, nil, nil)

		_, err := svc.Checkout(ctx, 1, "TAKE25")
		require.NoError(t, err)
		assert.True(t, orders.gotTotal.Equal(decimal.NewFromInt(75)), "got %s", orders.gotTotal)
	})

	t.Run("flat promo larger than subtotal clamps to zero", func(t *testing.T) {
		promos := &fakePromos{codes: map[string]*entity.PromoCode{
			"BIG": {Code: "BIG", DiscountType: entity.DiscountFlat, Value: decimal.NewFromInt(500), IsActive: true},
		}}
		orders := &fakeOrderStore{subtotal: decimal.NewFromInt(100)}
		svc := NewCheckoutService(orders, promos, nil, nil, nil)

		_, err := svc.Checkout(ctx, 1, "BIG")
		require.NoError(t, err)
		assert.True(t, orders.gotTotal.Equal(decimal.Zero), "got %s", orders.gotTotal)
	})

	t.Run("no promo keeps the subtotal", func(t *testing.T) {
		orders := &fakeOrderStore{subtotal: decimal.RequireFromString("49.98")}
		svc := NewCheckoutService(orders, &fakePromos{}, nil, nil, nil)

		_, err := svc.Checkout(ctx, 1, "")
		require.NoError(t, err)
		assert.True(t, orders.gotTotal.Equal(decimal.RequireFromString("49.98")), "got %s", orders.gotTotal)
	})
}

func TestCheckoutFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		orders := &fakeOrderStore{err: repository.ErrEmptyCart}
		events := &fakeEvents{}
		svc := NewCheckoutService(orders, &fakePromos{}, events, events, nil)

		_, err := svc.Checkout(ctx, 1, "")
		assert.ErrorIs(t, err, repository.ErrEmptyCart)
		assert.Empty(t, events.messages)
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		orders := &fakeOrderStore{err: &repository.InsufficientStockError{Product: "Apple"}}
		events := &fakeEvents{}
		svc := NewCheckoutService(orders, &fakePromos{}, events, events, nil)

		_, err := svc.Checkout(ctx, 1, "")
		var stockErr *repository.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Apple", stockErr.Product)
		assert.Empty(t, events.messages)
	})
}

func TestCheckoutEvents(t *testing.T) {
	ctx := context.Background()

	result := &repository.CheckoutResult{
		Order: &entity.Order{
			ID:          7,
			CustomerID:  1,
			TotalAmount: decimal.NewFromInt(100),
			Items: []entity.OrderItem{
				{ProductID: 1, Quantity: 2, Product: &entity.Product{ID: 1, Name: "Apple"}},
				{ProductID: 2, Quantity: 1, Product: &entity.Product{ID: 2, Name: "Banana"}},
			},
		},
		RemainingStock: map[int]int{1: 3, 2: 40},
	}

	orderEvents := &fakeEvents{}
	stockAlerts := &fakeEvents{}
	orders := &fakeOrderStore{result: result, subtotal: decimal.NewFromInt(100)}
	svc := NewCheckoutService(orders, &fakePromos{}, orderEvents, stockAlerts, nil)

	order, err := svc.Checkout(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 7, order.ID)

	require.Len(t, orderEvents.messages, 1)
	assert.Equal(t, "order-created-7", string(orderEvents.messages[0].Key))

	// Only the product at or below the threshold alerts.
	require.Len(t, stockAlerts.messages, 1)
	assert.Equal(t, "low-stock-1", string(stockAlerts.messages[0].Key))
	assert.Contains(t, string(stockAlerts.messages[0].Value), `"stock":3`)
}
