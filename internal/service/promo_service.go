package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"store-service/internal/entity"
)

type PromoStore interface {
	List(ctx context.Context) ([]*entity.PromoCode, error)
	GetByID(ctx context.Context, id int) (*entity.PromoCode, error)
	Create(ctx context.Context, promo *entity.PromoCode) (*entity.PromoCode, error)
	Update(ctx context.Context, promo *entity.PromoCode) (*entity.PromoCode, error)
	Delete(ctx context.Context, id int) error
}

type PromoService struct {
	promos PromoStore
}

func NewPromoService(promos PromoStore) *PromoService {
	return &PromoService{promos: promos}
}

func validatePromo(promo *entity.PromoCode) error {
	promo.Code = strings.TrimSpace(promo.Code)
	if promo.Code == "" {
		return ErrInvalidInput
	}
	if promo.DiscountType != entity.DiscountPercent && promo.DiscountType != entity.DiscountFlat {
		return ErrInvalidInput
	}
	if !promo.Value.IsPositive() {
		return ErrInvalidInput
	}
	return nil
}

func (s *PromoService) List(ctx context.Context) ([]*entity.PromoCode, error) {
	return s.promos.List(ctx)
}

func (s *PromoService) Get(ctx context.Context, id int) (*entity.PromoCode, error) {
	promo, err := s.promos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return promo, nil
}

func (s *PromoService) Create(ctx context.Context, promo *entity.PromoCode) (*entity.PromoCode, error) {
	if err := validatePromo(promo); err != nil {
		return nil, err
	}
	created, err := s.promos.Create(ctx, promo)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating promo code")
		return nil, err
	}
	return created, nil
}

func (s *PromoService) Update(ctx context.Context, id int, promo *entity.PromoCode) (*entity.PromoCode, error) {
	if err := validatePromo(promo); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	promo.ID = id
	updated, err := s.promos.Update(ctx, promo)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating promo code %d", id)
		return nil, err
	}
	return updated, nil
}

func (s *PromoService) Delete(ctx context.Context, id int) error {
	err := s.promos.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
