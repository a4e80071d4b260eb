package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"store-service/internal/service"
)

type CartHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
}

func NewCartHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService}
}

// List the caller's cart --> GET /cart
func (h *CartHandler) List(c echo.Context) error {
	items, err := h.cartService.List(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Add a product to the cart --> POST /cart
func (h *CartHandler) Add(c echo.Context) error {
	var in struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	item, err := h.cartService.Add(c.Request().Context(), currentUserID(c), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateQuantity --> PUT /cart/:id
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	item, err := h.cartService.UpdateQuantity(c.Request().Context(), currentUserID(c), id, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Remove --> DELETE /cart/:id
func (h *CartHandler) Remove(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	if err := h.cartService.Remove(c.Request().Context(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout converts the cart into an order --> POST /cart/checkout
func (h *CartHandler) Checkout(c echo.Context) error {
	var in struct {
		PromoCode string `json:"promo_code"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	order, err := h.checkoutService.Checkout(c.Request().Context(), currentUserID(c), in.PromoCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}
