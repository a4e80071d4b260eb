package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"store-service/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesByProduct --> GET /reports/sales-by-product?sort=most|least&category=
func (h *ReportHandler) SalesByProduct(c echo.Context) error {
	sales, err := h.reportService.SalesByProduct(c.Request().Context(), c.QueryParam("sort"), c.QueryParam("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}
