package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"store-service/internal/entity"
	"store-service/internal/service"
)

type PromoHandler struct {
	promoService *service.PromoService
}

func NewPromoHandler(promoService *service.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoService}
}

func (h *PromoHandler) List(c echo.Context) error {
	promos, err := h.promoService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, promos)
}

func (h *PromoHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	promo, err := h.promoService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, promo)
}

func (h *PromoHandler) Create(c echo.Context) error {
	promo := entity.PromoCode{IsActive: true}
	if err := c.Bind(&promo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	created, err := h.promoService.Create(c.Request().Context(), &promo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PromoHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	promo := entity.PromoCode{IsActive: true}
	if err := c.Bind(&promo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	updated, err := h.promoService.Update(c.Request().Context(), id, &promo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *PromoHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	if err := h.promoService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
