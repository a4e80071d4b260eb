package service

import (
	"context"
	"database/sql"
	"errors"

	"store-service/internal/entity"
)

type CartStore interface {
	ListByUser(ctx context.Context, userID int) ([]*entity.CartItem, error)
	Upsert(ctx context.Context, userID, productID, quantity int) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, id, quantity int) (*entity.CartItem, error)
	Delete(ctx context.Context, userID, id int) error
}

// ProductGetter is the slice of the product store the cart needs for stock
// validation.
type ProductGetter interface {
	GetByID(ctx context.Context, id int) (*entity.Product, error)
}

type CartService struct {
	carts    CartStore
	products ProductGetter
}

func NewCartService(carts CartStore, products ProductGetter) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) List(ctx context.Context, userID int) ([]*entity.CartItem, error) {
	return s.carts.ListByUser(ctx, userID)
}

// Add puts a product in the user's cart. Adding a product already in the
// cart replaces its quantity.
func (s *CartService) Add(ctx context.Context, userID, productID, quantity int) (*entity.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, ErrInvalidInput
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting product %d", productID)
		return nil, err
	}

	if quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	return s.carts.Upsert(ctx, userID, productID, quantity)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, id, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidInput
	}

	item, err := s.carts.UpdateQuantity(ctx, userID, id, quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, id int) error {
	err := s.carts.Delete(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
