package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"store-service/internal/entity"
	"store-service/internal/repository"
)

type ProductStore interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error)
	GetBySlugAndID(ctx context.Context, slug string, id int) (*entity.Product, error)
	GetByID(ctx context.Context, id int) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Delete(ctx context.Context, slug string, id int) error
}

// ImageLister attaches stored image rows to product payloads.
type ImageLister interface {
	ForProducts(ctx context.Context, ids []int) (map[int][]entity.ProductImage, error)
}

type ProductService struct {
	products ProductStore
	images   ImageLister
	cache    ProductCache
}

func NewProductService(products ProductStore, images ImageLister, cache ProductCache) *ProductService {
	return &ProductService{products: products, images: images, cache: cache}
}

// ProductInput is the write payload for product create/update.
type ProductInput struct {
	Name       string          `json:"name"`
	CategoryID *int            `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}
	if err := s.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get retrieves a product by its slug+id pair. A cached row only counts as a
// hit when its slug also matches, so cache reads keep the dual-key contract.
func (s *ProductService) Get(ctx context.Context, slug string, id int) (*entity.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.Warn().Err(err).Msgf("Error reading product %d from cache", id)
		}
		if cached != nil && cached.Slug == slug {
			if err := s.attachImages(ctx, []*entity.Product{cached}); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	product, err := s.products.GetBySlugAndID(ctx, slug, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting product %s/%d", slug, id)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			logger.Warn().Err(err).Msgf("Error caching product %d", id)
		}
	}

	if err := s.attachImages(ctx, []*entity.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:       strings.TrimSpace(in.Name),
		Slug:       entity.Slugify(in.Name),
		CategoryID: in.CategoryID,
		Price:      in.Price,
		Stock:      in.Stock,
	}
	created, err := s.products.Create(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, slug string, id int, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.products.GetBySlugAndID(ctx, slug, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.Slug = entity.Slugify(in.Name)
	existing.CategoryID = in.CategoryID
	existing.Category = nil
	existing.Price = in.Price
	existing.Stock = in.Stock

	updated, err := s.products.Update(ctx, existing)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", id)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn().Err(err).Msgf("Error invalidating product %d cache", id)
		}
	}

	if err := s.attachImages(ctx, []*entity.Product{updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, slug string, id int) error {
	err := s.products.Delete(ctx, slug, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn().Err(err).Msgf("Error invalidating product %d cache", id)
		}
	}
	return nil
}

func (s *ProductService) attachImages(ctx context.Context, products []*entity.Product) error {
	if s.images == nil || len(products) == 0 {
		return nil
	}
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	byProduct, err := s.images.ForProducts(ctx, ids)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading product images")
		return err
	}
	for _, p := range products {
		imgs := byProduct[p.ID]
		if imgs == nil {
			imgs = []entity.ProductImage{}
		}
		p.Images = imgs
	}
	return nil
}
