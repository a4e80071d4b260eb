package repository

import (
	"context"
	"database/sql"

	"store-service/internal/entity"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db}
}

// SalesByProduct aggregates total quantity sold per product across all
// orders. The LEFT JOIN keeps never-sold products in the result with a zero
// total. category filters by category name, compared case-insensitively;
// ascending flips the default most-sold-first order.
func (r *ReportRepository) SalesByProduct(ctx context.Context, category string, ascending bool) ([]*entity.ProductSales, error) {
	query := `SELECT p.id, p.name, COALESCE(SUM(oi.quantity), 0) AS total_sold
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id`
	var args []any
	if category != "" {
		query += `
		JOIN categories c ON c.id = p.category_id AND UPPER(c.name) = UPPER(?)`
		args = append(args, category)
	}
	query += `
		GROUP BY p.id, p.name`
	if ascending {
		query += `
		ORDER BY total_sold ASC, p.id`
	} else {
		query += `
		ORDER BY total_sold DESC, p.id`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []*entity.ProductSales{}
	for rows.Next() {
		var row entity.ProductSales
		if err := rows.Scan(&row.ProductID, &row.Name, &row.TotalSold); err != nil {
			return nil, err
		}
		sales = append(sales, &row)
	}

	return sales, rows.Err()
}
