package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"store-service/internal/entity"
	"store-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// LowStockThreshold is the stock level at or below which a low-stock
// notification is emitted after checkout.
const LowStockThreshold = 5

// OrderStore is the transactional side of checkout.
type OrderStore interface {
	CreateOrderFromCart(ctx context.Context, userID int, applyDiscount func(decimal.Decimal) decimal.Decimal) (*repository.CheckoutResult, error)
}

// PromoResolver looks up an active promo code.
type PromoResolver interface {
	GetActiveByCode(ctx context.Context, code string) (*entity.PromoCode, error)
}

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// CheckoutService converts a user's cart into an order: it resolves the
// promo code, runs the all-or-nothing checkout transaction, and emits
// order-created and low-stock events once the transaction has committed.
type CheckoutService struct {
	orders      OrderStore
	promos      PromoResolver
	orderEvents EventWriter
	stockAlerts EventWriter
	cache       ProductCache
}

func NewCheckoutService(orders OrderStore, promos PromoResolver, orderEvents, stockAlerts EventWriter, cache ProductCache) *CheckoutService {
	return &CheckoutService{
		orders:      orders,
		promos:      promos,
		orderEvents: orderEvents,
		stockAlerts: stockAlerts,
		cache:       cache,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID int, promoCode string) (*entity.Order, error) {
	var promo *entity.PromoCode
	if promoCode != "" {
		p, err := s.promos.GetActiveByCode(ctx, promoCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrInvalidPromo
			}
			logger.Error().Err(err).Msgf("Error resolving promo code %s", promoCode)
			return nil, err
		}
		if p.Expired(time.Now()) {
			return nil, ErrExpiredPromo
		}
		promo = p
	}

	applyDiscount := func(subtotal decimal.Decimal) decimal.Decimal {
		if promo == nil {
			return subtotal
		}
		return promo.Apply(subtotal)
	}

	result, err := s.orders.CreateOrderFromCart(ctx, userID, applyDiscount)
	if err != nil {
		return nil, err
	}
	order := result.Order

	// The order is committed; everything below is notification and cache
	// upkeep and must not fail the checkout.
	ids := make([]int, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ids...); err != nil {
			logger.Warn().Err(err).Msg("Error invalidating product cache after checkout")
		}
	}

	s.publishOrderCreated(ctx, order)
	s.publishLowStockAlerts(ctx, order, result.RemainingStock)

	return order, nil
}

func (s *CheckoutService) publishOrderCreated(ctx context.Context, order *entity.Order) {
	if s.orderEvents == nil {
		return
	}
	payload, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling order %d event", order.ID)
		return
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-created-%d", order.ID)),
		Value: payload,
	}
	if err := s.orderEvents.WriteMessages(ctx, msg); err != nil {
		logger.Warn().Err(err).Msgf("Error publishing created event for order %d", order.ID)
	}
}

type lowStockAlert struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

func (s *CheckoutService) publishLowStockAlerts(ctx context.Context, order *entity.Order, remaining map[int]int) {
	if s.stockAlerts == nil {
		return
	}
	for _, item := range order.Items {
		stock, ok := remaining[item.ProductID]
		if !ok || stock > LowStockThreshold {
			continue
		}
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		payload, err := json.Marshal(lowStockAlert{ProductID: item.ProductID, Name: name, Stock: stock})
		if err != nil {
			logger.Error().Err(err).Msgf("Error marshalling low-stock alert for product %d", item.ProductID)
			continue
		}
		msg := kafka.Message{
			Key:   []byte(fmt.Sprintf("low-stock-%d", item.ProductID)),
			Value: payload,
		}
		if err := s.stockAlerts.WriteMessages(ctx, msg); err != nil {
			logger.Warn().Err(err).Msgf("Error publishing low-stock alert for product %d", item.ProductID)
		}
	}
}
