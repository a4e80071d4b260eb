package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"store-service/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CheckoutResult is what the checkout transaction hands back to the engine:
// the created order plus the post-decrement stock per purchased product, so
// the engine can raise low-stock notifications without another round trip.
type CheckoutResult struct {
	Order          *entity.Order
	RemainingStock map[int]int
}

// CreateOrderFromCart converts the user's cart into an order inside a single
// transaction: it snapshots each line's current product price, decrements
// stock with a conditional atomic update, writes the order and its items, and
// clears the cart. Any failure rolls the whole transaction back.
//
// applyDiscount maps the cart subtotal to the order total (promo resolution
// happens before the transaction; the arithmetic is pure).
func (r *OrderRepository) CreateOrderFromCart(ctx context.Context, userID int, applyDiscount func(decimal.Decimal) decimal.Decimal) (*CheckoutResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Cart lines in their existing iteration order, with the price snapshot
	// read inside the transaction.
	lineQuery := `SELECT ci.product_id, ci.quantity, p.name, p.slug, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id`
	rows, err := tx.QueryContext(ctx, lineQuery, userID)
	if err != nil {
		return nil, err
	}

	type cartLine struct {
		productID int
		quantity  int
		name      string
		slug      string
		price     decimal.Decimal
	}
	var lines []cartLine
	for rows.Next() {
		var line cartLine
		if err := rows.Scan(&line.productID, &line.quantity, &line.name, &line.slug, &line.price); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Conditional decrement: the WHERE clause is the stock check, so a
	// concurrent checkout that drained the product simply matches no row.
	// Stock can never go negative.
	decrement := `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`
	subtotal := decimal.Zero
	for _, line := range lines {
		res, err := tx.ExecContext(ctx, decrement, line.quantity, line.productID, line.quantity)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, &InsufficientStockError{Product: line.name}
		}
		subtotal = subtotal.Add(line.price.Mul(decimal.NewFromInt(int64(line.quantity))))
	}

	total := applyDiscount(subtotal)
	if total.IsNegative() {
		total = decimal.Zero
	}

	orderQuery := `INSERT INTO orders (customer_id, total_amount) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, userID, total)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES `
	var values []any
	for _, line := range lines {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, orderID, line.productID, line.quantity, line.price)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]
	if _, err := tx.ExecContext(ctx, itemQuery, values...); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}

	// Post-decrement stock for the purchased products, read before commit so
	// the numbers belong to this transaction's view.
	ids := make([]int, len(lines))
	for i, line := range lines {
		ids[i] = line.productID
	}
	stockQuery := `SELECT id, stock FROM products WHERE id IN (` + placeholders(len(ids)) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	stockRows, err := tx.QueryContext(ctx, stockQuery, args...)
	if err != nil {
		return nil, err
	}
	remaining := map[int]int{}
	for stockRows.Next() {
		var id, stock int
		if err := stockRows.Scan(&id, &stock); err != nil {
			stockRows.Close()
			return nil, err
		}
		remaining[id] = stock
	}
	stockRows.Close()
	if err := stockRows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order, err := r.GetByID(ctx, int(orderID))
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: order, RemainingStock: remaining}, nil
}

const orderItemSelect = `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
		p.id, p.name, p.slug, p.price, p.stock
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id`

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	query := `SELECT id, customer_id, total_amount, created_at FROM orders WHERE id = ?`
	var order entity.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	itemQuery := orderItemSelect + ` WHERE oi.order_id = ? ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = []entity.OrderItem{}
	for rows.Next() {
		var (
			item    entity.OrderItem
			product entity.Product
		)
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase,
			&product.ID, &product.Name, &product.Slug, &product.Price, &product.Stock)
		if err != nil {
			return nil, err
		}
		item.Product = &product
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]*entity.Order, error) {
	query := `SELECT id, customer_id, total_amount, created_at FROM orders WHERE customer_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*entity.Order{}
	byID := map[int]*entity.Order{}
	for rows.Next() {
		var order entity.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Items = []entity.OrderItem{}
		orders = append(orders, &order)
		byID[order.ID] = &order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// Items for all orders in one query.
	ids := make([]any, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	itemQuery := orderItemSelect + ` WHERE oi.order_id IN (` + placeholders(len(ids)) + `) ORDER BY oi.order_id, oi.id`
	itemRows, err := r.db.QueryContext(ctx, itemQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			item    entity.OrderItem
			product entity.Product
		)
		err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase,
			&product.ID, &product.Name, &product.Slug, &product.Price, &product.Stock)
		if err != nil {
			return nil, err
		}
		item.Product = &product
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return orders, itemRows.Err()
}
