package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"store-service/internal/repository"
	"store-service/internal/service"
)

// respondError maps domain errors onto the API's structured 4xx responses.
// Everything unexpected becomes a plain 500; failed checkout transactions
// have already rolled back by the time they reach here.
func respondError(c echo.Context, err error) error {
	var stockErr *repository.InsufficientStockError

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
	case errors.As(err, &stockErr):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"detail": fmt.Sprintf("Product %s out of stock or insufficient quantity.", stockErr.Product),
		})
	case errors.Is(err, repository.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Cart is empty."})
	case errors.Is(err, service.ErrInvalidPromo):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid promo code"})
	case errors.Is(err, service.ErrExpiredPromo):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Promo code expired."})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Insufficient stock."})
	case errors.Is(err, service.ErrCategoryExists):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Category already exists."})
	case errors.Is(err, service.ErrNoFiles):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "No files uploaded"})
	case errors.Is(err, service.ErrTooManyImages):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Max 7 images allowed"})
	case errors.Is(err, repository.ErrProductReferenced):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Product has order history and cannot be deleted."})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Already exists."})
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid username or password."})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
	}
}
