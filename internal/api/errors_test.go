package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-service/internal/repository"
	"store-service/internal/service"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, "Not found."},
		{"empty cart", repository.ErrEmptyCart, http.StatusBadRequest, "Cart is empty."},
		{"insufficient stock names the product", &repository.InsufficientStockError{Product: "Apple"}, http.StatusBadRequest, "Product Apple out of stock or insufficient quantity."},
		{"invalid promo", service.ErrInvalidPromo, http.StatusBadRequest, "Invalid promo code"},
		{"expired promo", service.ErrExpiredPromo, http.StatusBadRequest, "Promo code expired."},
		{"cart stock", service.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock."},
		{"duplicate category", service.ErrCategoryExists, http.StatusBadRequest, "Category already exists."},
		{"no files", service.ErrNoFiles, http.StatusBadRequest, "No files uploaded"},
		{"image cap", service.ErrTooManyImages, http.StatusBadRequest, "Max 7 images allowed"},
		{"product with order history", repository.ErrProductReferenced, http.StatusBadRequest, "Product has order history and cannot be deleted."},
		{"bad input", service.ErrInvalidInput, http.StatusBadRequest, "Invalid request payload"},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password."},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, respondError(c, tc.err))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantDetail)
		})
	}
}
