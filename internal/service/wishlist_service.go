package service

import (
	"context"
	"database/sql"
	"errors"

	"store-service/internal/entity"
	"store-service/internal/repository"
)

type WishlistStore interface {
	ListByUser(ctx context.Context, userID int) ([]*entity.WishlistItem, error)
	Create(ctx context.Context, userID, productID int) (*entity.WishlistItem, error)
	Delete(ctx context.Context, userID, id int) error
}

type WishlistService struct {
	wishlists WishlistStore
	products  ProductGetter
}

func NewWishlistService(wishlists WishlistStore, products ProductGetter) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

func (s *WishlistService) List(ctx context.Context, userID int) ([]*entity.WishlistItem, error) {
	return s.wishlists.ListByUser(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID, productID int) (*entity.WishlistItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	item, err := s.wishlists.Create(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		logger.Error().Err(err).Msgf("Error adding product %d to wishlist", productID)
		return nil, err
	}
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, id int) error {
	err := s.wishlists.Delete(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
