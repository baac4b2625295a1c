package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// AnalyticsRepository define las consultas agregadas sobre el libro de ventas.
// Las implementaciones son read-only y devuelven cero cuando no hay ventas.
type AnalyticsRepository interface {
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	SalesCount(ctx context.Context) (int, error)

	// RevenueInRange suma total_price con start <= sale_date <= end.
	RevenueInRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// TopProducts agrupa por producto y ordena por ingreso descendente.
	// Los empates conservan el orden de la primera venta de cada producto.
	TopProducts(ctx context.Context, limit int) ([]entity.ProductSales, error)
}
