package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrEmptyCart is returned by the checkout transaction when the user has no
// cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrDuplicate is returned when an insert or update violates a unique key
// (category name, product slug, promo code, cart/wishlist user+product pair).
var ErrDuplicate = errors.New("duplicate entry")

// ErrProductReferenced is returned when deleting a product that still has
// order history.
var ErrProductReferenced = errors.New("product referenced by order history")

// InsufficientStockError names the product whose stock could not cover the
// requested quantity. The conditional decrement raises it on a lost race as
// well as on a plain oversell.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s out of stock or insufficient quantity", e.Product)
}

const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
