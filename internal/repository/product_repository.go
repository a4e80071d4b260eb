package repository

import (
	"context"
	"database/sql"
	"strings"

	"store-service/internal/entity"
)

// ProductFilter narrows the product listing. Zero values mean no filtering.
type ProductFilter struct {
	CategorySlug string
	Search       string
	MostPopular  bool
}

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

const productColumns = `p.id, p.name, p.slug, p.category_id, p.price, p.stock, p.created_at, p.updated_at,
		c.id, c.name, c.slug`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var (
		product    entity.Product
		categoryID sql.NullInt64
		catID      sql.NullInt64
		catName    sql.NullString
		catSlug    sql.NullString
	)
	err := row.Scan(&product.ID, &product.Name, &product.Slug, &categoryID,
		&product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt,
		&catID, &catName, &catSlug)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		product.CategoryID = &id
		if catID.Valid {
			product.Category = &entity.Category{
				ID:   int(catID.Int64),
				Name: catName.String,
				Slug: catSlug.String,
			}
		}
	}
	product.Images = []entity.ProductImage{}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error) {
	var (
		conds []string
		args  []any
	)

	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`

	if filter.CategorySlug != "" {
		conds = append(conds, "c.slug = ?")
		args = append(args, strings.ToLower(filter.CategorySlug))
	}
	if filter.Search != "" {
		conds = append(conds, "p.name LIKE CONCAT('%', ?, '%')")
		args = append(args, filter.Search)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	if filter.MostPopular {
		// Historical sales rank; products never sold count as zero.
		query = `SELECT ` + productColumns + `
			FROM products p
			LEFT JOIN categories c ON c.id = p.category_id
			LEFT JOIN order_items oi ON oi.product_id = p.id`
		if len(conds) > 0 {
			query += " WHERE " + strings.Join(conds, " AND ")
		}
		query += `
			GROUP BY p.id, c.id
			ORDER BY COALESCE(SUM(oi.quantity), 0) DESC`
	} else {
		query += ` ORDER BY p.created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*entity.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// GetBySlugAndID retrieves a product only when both the slug and the id
// match the same row.
func (r *ProductRepository) GetBySlugAndID(ctx context.Context, slug string, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.slug = ? AND p.id = ?`
	return scanProduct(r.db.QueryRowContext(ctx, query, slug, id))
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, slug, category_id, price, stock) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Slug, nullableInt(product.CategoryID), product.Price, product.Stock)
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

	product.ID = int(id)
	return r.GetByID(ctx, product.ID)
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, slug = ?, category_id = ?, price = ?, stock = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Slug, nullableInt(product.CategoryID), product.Price, product.Stock, product.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, product.ID)
}

// Delete removes a product unless order history references it.
func (r *ProductRepository) Delete(ctx context.Context, slug string, id int) error {
	var referenced int
	countQuery := `SELECT COUNT(*) FROM order_items WHERE product_id = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, id).Scan(&referenced); err != nil {
		return err
	}
	if referenced > 0 {
		return ErrProductReferenced
	}

	query := `DELETE FROM products WHERE slug = ? AND id = ?`
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

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
