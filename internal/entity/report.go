package entity

// ProductSales is one row of the sales-by-product report.
type ProductSales struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}
