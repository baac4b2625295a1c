package dto

import "github.com/shopspring/decimal"

// TopProductDTO posición en el ranking de productos por ingreso.
type TopProductDTO struct {
	Rank          int             `json:"rank"` // 1 = mayor ingreso
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// StatisticsDTO respuesta de GET /api/reports/statistics.
type StatisticsDTO struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalSalesCount int             `json:"total_sales_count"`
	TopProducts     []TopProductDTO `json:"top_products"`
}

// RevenueRangeDTO ingreso entre dos fechas (ambas inclusivas).
type RevenueRangeDTO struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyReportDTO ventas de un día calendario (UTC).
type DailyReportDTO struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	Sales      []SaleDTO       `json:"sales"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int             `json:"sales_count"`
}
