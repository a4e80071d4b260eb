package repository

import (
	"context"
	"database/sql"

	"store-service/internal/entity"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

const cartSelect = `SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.added_at, ci.updated_at,
		p.id, p.name, p.slug, p.price, p.stock
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id`

func scanCartItem(row interface{ Scan(...any) error }) (*entity.CartItem, error) {
	var (
		item    entity.CartItem
		product entity.Product
	)
	err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt, &item.UpdatedAt,
		&product.ID, &product.Name, &product.Slug, &product.Price, &product.Stock)
	if err != nil {
		return nil, err
	}
	item.Product = &product
	return &item, nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID int) ([]*entity.CartItem, error) {
	query := cartSelect + ` WHERE ci.user_id = ? ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*entity.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *CartRepository) GetByID(ctx context.Context, userID, id int) (*entity.CartItem, error) {
	query := cartSelect + ` WHERE ci.user_id = ? AND ci.id = ?`
	return scanCartItem(r.db.QueryRowContext(ctx, query, userID, id))
}

// Upsert adds a cart line; re-adding a product the user already carts
// replaces the quantity instead of failing the unique pair.
func (r *CartRepository) Upsert(ctx context.Context, userID, productID, quantity int) (*entity.CartItem, error) {
	query := `INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)`
	_, err := r.db.ExecContext(ctx, query, userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	lookup := cartSelect + ` WHERE ci.user_id = ? AND ci.product_id = ?`
	return scanCartItem(r.db.QueryRowContext(ctx, lookup, userID, productID))
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, id, quantity int) (*entity.CartItem, error) {
	query := `UPDATE cart_items SET quantity = ? WHERE user_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, quantity, userID, id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Distinguish missing row from unchanged quantity.
		if _, err := r.GetByID(ctx, userID, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, userID, id)
}

func (r *CartRepository) Delete(ctx context.Context, userID, id int) error {
	query := `DELETE FROM cart_items WHERE user_id = ? AND id = ?`
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
