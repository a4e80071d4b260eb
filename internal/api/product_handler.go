package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"store-service/internal/repository"
	"store-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List products --> GET /products?category=&search=&popular=most
func (h *ProductHandler) List(c echo.Context) error {
	filter := repository.ProductFilter{
		CategorySlug: c.QueryParam("category"),
		Search:       c.QueryParam("search"),
		MostPopular:  c.QueryParam("popular") == "most",
	}

	products, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get product by slug+id --> GET /products/:slug/:id
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	product, err := h.productService.Get(c.Request().Context(), c.Param("slug"), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	product, err := h.productService.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	product, err := h.productService.Update(c.Request().Context(), c.Param("slug"), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	if err := h.productService.Delete(c.Request().Context(), c.Param("slug"), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
