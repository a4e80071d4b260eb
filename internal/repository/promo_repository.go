package repository

import (
	"context"
	"database/sql"

	"store-service/internal/entity"
)

type PromoRepository struct {
	db *sql.DB
}

func NewPromoRepository(db *sql.DB) *PromoRepository {
	return &PromoRepository{db}
}

const promoColumns = `id, code, discount_type, value, is_active, expires_at, created_at`

func scanPromo(row interface{ Scan(...any) error }) (*entity.PromoCode, error) {
	var (
		promo     entity.PromoCode
		expiresAt sql.NullTime
	)
	err := row.Scan(&promo.ID, &promo.Code, &promo.DiscountType, &promo.Value,
		&promo.IsActive, &expiresAt, &promo.CreatedAt)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		promo.ExpiresAt = &t
	}
	return &promo, nil
}

func (r *PromoRepository) List(ctx context.Context) ([]*entity.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promos := []*entity.PromoCode{}
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, promo)
	}

	return promos, rows.Err()
}

func (r *PromoRepository) GetByID(ctx context.Context, id int) (*entity.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = ?`
	return scanPromo(r.db.QueryRowContext(ctx, query, id))
}

// GetActiveByCode resolves a promo code for checkout; inactive codes are
// treated the same as unknown ones.
func (r *PromoRepository) GetActiveByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = ? AND is_active = TRUE`
	return scanPromo(r.db.QueryRowContext(ctx, query, code))
}

func (r *PromoRepository) Create(ctx context.Context, promo *entity.PromoCode) (*entity.PromoCode, error) {
	query := `INSERT INTO promo_codes (code, discount_type, value, is_active, expires_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, promo.Code, promo.DiscountType, promo.Value, promo.IsActive, promo.ExpiresAt)
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

	return r.GetByID(ctx, int(id))
}

func (r *PromoRepository) Update(ctx context.Context, promo *entity.PromoCode) (*entity.PromoCode, error) {
	query := `UPDATE promo_codes SET code = ?, discount_type = ?, value = ?, is_active = ?, expires_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, promo.Code, promo.DiscountType, promo.Value, promo.IsActive, promo.ExpiresAt, promo.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, promo.ID)
}

func (r *PromoRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM promo_codes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
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
