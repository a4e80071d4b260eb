package repository

import (
	"context"
	"database/sql"

	"store-service/internal/entity"
)

type WishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{db}
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID int) ([]*entity.WishlistItem, error) {
	query := `SELECT wi.id, wi.user_id, wi.product_id, wi.added_at,
			p.id, p.name, p.slug, p.price, p.stock
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.user_id = ?
		ORDER BY wi.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*entity.WishlistItem{}
	for rows.Next() {
		var (
			item    entity.WishlistItem
			product entity.Product
		)
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.AddedAt,
			&product.ID, &product.Name, &product.Slug, &product.Price, &product.Stock)
		if err != nil {
			return nil, err
		}
		item.Product = &product
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *WishlistRepository) Create(ctx context.Context, userID, productID int) (*entity.WishlistItem, error) {
	query := `INSERT INTO wishlist_items (user_id, product_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, userID, productID)
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

	lookup := `SELECT wi.id, wi.user_id, wi.product_id, wi.added_at,
			p.id, p.name, p.slug, p.price, p.stock
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.id = ?`
	var (
		item    entity.WishlistItem
		product entity.Product
	)
	err = r.db.QueryRowContext(ctx, lookup, id).Scan(&item.ID, &item.UserID, &item.ProductID, &item.AddedAt,
		&product.ID, &product.Name, &product.Slug, &product.Price, &product.Stock)
	if err != nil {
		return nil, err
	}
	item.Product = &product
	return &item, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, userID, id int) error {
	query := `DELETE FROM wishlist_items WHERE user_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, userID, id)
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
