package repository

import (
	"context"
	"database/sql"

	"store-service/internal/entity"
)

type ImageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db}
}

const imageColumns = `id, product_id, object_key, created_at, updated_at`

func (r *ImageRepository) ListByProduct(ctx context.Context, productID int) ([]*entity.ProductImage, error) {
	query := `SELECT ` + imageColumns + ` FROM product_images WHERE product_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []*entity.ProductImage{}
	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}

	return images, rows.Err()
}

// ForProducts fetches images for several products at once so listings can
// embed them without a query per product.
func (r *ImageRepository) ForProducts(ctx context.Context, ids []int) (map[int][]entity.ProductImage, error) {
	images := map[int][]entity.ProductImage{}
	if len(ids) == 0 {
		return images, nil
	}

	query := `SELECT ` + imageColumns + ` FROM product_images WHERE product_id IN (` +
		placeholders(len(ids)) + `) ORDER BY created_at, id`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		images[img.ProductID] = append(images[img.ProductID], img)
	}

	return images, rows.Err()
}

func (r *ImageRepository) CountByProduct(ctx context.Context, productID int) (int, error) {
	query := `SELECT COUNT(*) FROM product_images WHERE product_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageRepository) GetByID(ctx context.Context, productID, id int) (*entity.ProductImage, error) {
	query := `SELECT ` + imageColumns + ` FROM product_images WHERE product_id = ? AND id = ?`
	var img entity.ProductImage
	err := r.db.QueryRowContext(ctx, query, productID, id).Scan(&img.ID, &img.ProductID, &img.Image, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepository) Create(ctx context.Context, img *entity.ProductImage) (*entity.ProductImage, error) {
	query := `INSERT INTO product_images (product_id, object_key) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, img.ProductID, img.Image)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	img.ID = int(id)
	return r.GetByID(ctx, img.ProductID, img.ID)
}

// SetObjectKey repoints an image row at a new blob (replacement upload).
func (r *ImageRepository) SetObjectKey(ctx context.Context, id int, objectKey string) error {
	query := `UPDATE product_images SET object_key = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, objectKey, id)
	return err
}

func (r *ImageRepository) Delete(ctx context.Context, productID, id int) error {
	query := `DELETE FROM product_images WHERE product_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, productID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
