package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"store-service/internal/entity"
)

// OrderLister is the read side of order history.
type OrderLister interface {
	ListByUser(ctx context.Context, userID int) ([]*entity.Order, error)
}

type OrderHandler struct {
	orders OrderLister
}

func NewOrderHandler(orders OrderLister) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListMine returns the caller's own orders --> GET /orders
func (h *OrderHandler) ListMine(c echo.Context) error {
	orders, err := h.orders.ListByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
