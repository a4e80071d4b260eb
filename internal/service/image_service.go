package service

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"store-service/internal/entity"
	"store-service/internal/storage"
)

type ImageStore interface {
	ListByProduct(ctx context.Context, productID int) ([]*entity.ProductImage, error)
	CountByProduct(ctx context.Context, productID int) (int, error)
	GetByID(ctx context.Context, productID, id int) (*entity.ProductImage, error)
	Create(ctx context.Context, img *entity.ProductImage) (*entity.ProductImage, error)
	SetObjectKey(ctx context.Context, id int, objectKey string) error
	Delete(ctx context.Context, productID, id int) error
}

// Upload is one incoming image file.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// ImageService manages a product's image attachments and keeps blob storage
// consistent with the rows: deleting or replacing an image always releases
// the previous binary.
type ImageService struct {
	images   ImageStore
	blobs    storage.BlobStore
	products ProductGetter
}

func NewImageService(images ImageStore, blobs storage.BlobStore, products ProductGetter) *ImageService {
	return &ImageService{images: images, blobs: blobs, products: products}
}

func (s *ImageService) List(ctx context.Context, productID int) ([]*entity.ProductImage, error) {
	if err := s.productExists(ctx, productID); err != nil {
		return nil, err
	}
	return s.images.ListByProduct(ctx, productID)
}

func (s *ImageService) Upload(ctx context.Context, productID int, uploads []Upload) ([]*entity.ProductImage, error) {
	if err := s.productExists(ctx, productID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	count, err := s.images.CountByProduct(ctx, productID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error counting images for product %d", productID)
		return nil, err
	}
	if count+len(uploads) > entity.MaxProductImages {
		return nil, ErrTooManyImages
	}

	created := []*entity.ProductImage{}
	for _, up := range uploads {
		key := storage.NewObjectKey(up.Filename)
		if err := s.blobs.Save(key, up.Reader); err != nil {
			logger.Error().Err(err).Msgf("Error storing image blob for product %d", productID)
			return nil, err
		}

		img, err := s.images.Create(ctx, &entity.ProductImage{ProductID: productID, Image: key})
		if err != nil {
			// Row insert failed after the blob landed; release the blob.
			if derr := s.blobs.Delete(key); derr != nil {
				logger.Warn().Err(derr).Msgf("Error releasing orphaned blob %s", key)
			}
			logger.Error().Err(err).Msgf("Error creating image row for product %d", productID)
			return nil, err
		}
		created = append(created, img)
	}

	return created, nil
}

// Replace swaps an image's binary and releases the old blob.
func (s *ImageService) Replace(ctx context.Context, productID, id int, up Upload) (*entity.ProductImage, error) {
	img, err := s.images.GetByID(ctx, productID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newKey := storage.NewObjectKey(up.Filename)
	if err := s.blobs.Save(newKey, up.Reader); err != nil {
		logger.Error().Err(err).Msgf("Error storing replacement blob for image %d", id)
		return nil, err
	}

	if err := s.images.SetObjectKey(ctx, id, newKey); err != nil {
		if derr := s.blobs.Delete(newKey); derr != nil {
			logger.Warn().Err(derr).Msgf("Error releasing orphaned blob %s", newKey)
		}
		return nil, err
	}

	if err := s.blobs.Delete(img.Image); err != nil {
		logger.Warn().Err(err).Msgf("Error releasing replaced blob %s", img.Image)
	}

	return s.images.GetByID(ctx, productID, id)
}

func (s *ImageService) Delete(ctx context.Context, productID, id int) error {
	img, err := s.images.GetByID(ctx, productID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.images.Delete(ctx, productID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.blobs.Delete(img.Image); err != nil {
		logger.Warn().Err(err).Msgf("Error releasing blob %s", img.Image)
	}
	return nil
}

func (s *ImageService) productExists(ctx context.Context, productID int) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
