package repository

import (
	"context"
	"database/sql"

	"store-service/internal/entity"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT id, name, slug FROM categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*entity.Category{}
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

// GetBySlugAndID retrieves a category only when both keys match.
func (r *CategoryRepository) GetBySlugAndID(ctx context.Context, slug string, id int) (*entity.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE slug = ? AND id = ?`
	var category entity.Category
	err := r.db.QueryRowContext(ctx, query, slug, id).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsByName checks for a category with the given (already normalized) name.
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT COUNT(*) FROM categories WHERE name = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `INSERT INTO categories (name, slug) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Slug)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	category.ID = int(id)
	return category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `UPDATE categories SET name = ?, slug = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, category.Name, category.Slug, category.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, slug string, id int) error {
	query := `DELETE FROM categories WHERE slug = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, slug, id)
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
