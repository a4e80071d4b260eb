package service

import (
	"context"

	"store-service/internal/entity"
)

type SalesReporter interface {
	SalesByProduct(ctx context.Context, category string, ascending bool) ([]*entity.ProductSales, error)
}

type ReportService struct {
	reports SalesReporter
}

func NewReportService(reports SalesReporter) *ReportService {
	return &ReportService{reports: reports}
}

// SalesByProduct returns total quantity sold per product. sort is "most"
// (default) or "least"; category filters by category name, case-insensitive.
// Products that never sold are included with a zero total.
func (s *ReportService) SalesByProduct(ctx context.Context, sort, category string) ([]*entity.ProductSales, error) {
	ascending := sort == "least"
	sales, err := s.reports.SalesByProduct(ctx, category, ascending)
	if err != nil {
		logger.Error().Err(err).Msg("Error building sales report")
		return nil, err
	}
	return sales, nil
}
