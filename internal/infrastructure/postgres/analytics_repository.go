package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura sobre el libro de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// TotalRevenue suma total_price de todo el libro. COALESCE devuelve 0 sin ventas.
func (r *AnalyticsRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM sales`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.TotalRevenue: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepo) SalesCount(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.SalesCount: %w", err)
	}
	return n, nil
}

// RevenueInRange suma con ambos extremos incluidos.
func (r *AnalyticsRepo) RevenueInRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total_price), 0)
	FROM sales
	WHERE sale_date >= $1 AND sale_date <= $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.RevenueInRange: %w", err)
	}
	return total, nil
}

// TopProducts agrupa el libro por producto. Los productos eliminados conservan
// su historial y se devuelven con nombre vacío. Empates: primera venta primero.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, limit int) ([]entity.ProductSales, error) {
	const query = `
	SELECT
	    s.product_id,
	    COALESCE(p.name, '')  AS product_name,
	    SUM(s.quantity)       AS total_quantity,
	    SUM(s.total_price)    AS total_revenue
	FROM sales s
	LEFT JOIN products p ON p.id = s.product_id
	GROUP BY s.product_id, p.name
	ORDER BY total_revenue DESC, MIN(s.id) ASC
	LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	var out []entity.ProductSales
	for rows.Next() {
		var row entity.ProductSales
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.TotalQuantity, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
