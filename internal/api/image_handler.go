package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"store-service/internal/service"
)

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// List --> GET /products/:product_id/images
func (h *ImageHandler) List(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	images, err := h.imageService.List(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, images)
}

// Create --> POST /products/:product_id/images, multipart field "images"
func (h *ImageHandler) Create(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "No files uploaded"})
	}

	files := form.File["images"]
	uploads := make([]service.Upload, 0, len(files))
	opened := make([]interface{ Close() error }, 0, len(files))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
		}
		opened = append(opened, src)
		uploads = append(uploads, service.Upload{Filename: fh.Filename, Reader: src})
	}

	images, err := h.imageService.Upload(c.Request().Context(), productID, uploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, images)
}

// Replace --> PATCH /products/:product_id/images/:id, multipart field "image"
func (h *ImageHandler) Replace(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "No files uploaded"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}
	defer src.Close()

	img, err := h.imageService.Replace(c.Request().Context(), productID, id, service.Upload{Filename: fh.Filename, Reader: src})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, img)
}

// Delete --> DELETE /products/:product_id/images/:id
func (h *ImageHandler) Delete(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid ID"})
	}

	if err := h.imageService.Delete(c.Request().Context(), productID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
