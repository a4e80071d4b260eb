package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"store-service/internal/entity"
)

type CategoryStore interface {
	List(ctx context.Context) ([]*entity.Category, error)
	GetBySlugAndID(ctx context.Context, slug string, id int) (*entity.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Delete(ctx context.Context, slug string, id int) error
}

type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]*entity.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, slug string, id int) (*entity.Category, error) {
	category, err := s.categories.GetBySlugAndID(ctx, slug, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

// Create stores a category under its normalized (upper-cased) name, so any
// case variant of an existing name is rejected as a duplicate.
func (s *CategoryService) Create(ctx context.Context, name string) (*entity.Category, error) {
	normalized := entity.NormalizeCategoryName(name)
	if normalized == "" {
		return nil, ErrInvalidInput
	}

	exists, err := s.categories.ExistsByName(ctx, normalized)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking category name")
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category := &entity.Category{
		Name: normalized,
		Slug: entity.Slugify(strings.ToLower(normalized)),
	}
	created, err := s.categories.Create(ctx, category)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating category")
		return nil, err
	}
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, slug string, id int, name string) (*entity.Category, error) {
	normalized := entity.NormalizeCategoryName(name)
	if normalized == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.Get(ctx, slug, id)
	if err != nil {
		return nil, err
	}

	if normalized != existing.Name {
		exists, err := s.categories.ExistsByName(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCategoryExists
		}
	}

	existing.Name = normalized
	existing.Slug = entity.Slugify(strings.ToLower(normalized))
	updated, err := s.categories.Update(ctx, existing)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating category %d", id)
		return nil, err
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, slug string, id int) error {
	err := s.categories.Delete(ctx, slug, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
