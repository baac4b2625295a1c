package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados sobre el libro en memoria. Nunca corre dentro de Run.
type AnalyticsRepo struct {
	s *Store
}

func (r *AnalyticsRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	defer r.s.readLock(false)()
	total := decimal.Zero
	for _, s := range r.s.sales {
		total = total.Add(s.TotalPrice)
	}
	return total, nil
}

func (r *AnalyticsRepo) SalesCount(_ context.Context) (int, error) {
	defer r.s.readLock(false)()
	return len(r.s.sales), nil
}

func (r *AnalyticsRepo) RevenueInRange(_ context.Context, start, end time.Time) (decimal.Decimal, error) {
	defer r.s.readLock(false)()
	total := decimal.Zero
	for _, s := range r.s.sales {
		if inRange(s.SaleDate, start, end) {
			total = total.Add(s.TotalPrice)
		}
	}
	return total, nil
}

// TopProducts agrupa en orden de primera venta y ordena de forma estable por ingreso.
func (r *AnalyticsRepo) TopProducts(_ context.Context, limit int) ([]entity.ProductSales, error) {
	if limit <= 0 {
		return nil, nil
	}
	unlock := r.s.readLock(false)
	index := make(map[int64]int)
	var groups []entity.ProductSales
	for _, s := range r.s.sales {
		i, ok := index[s.ProductID]
		if !ok {
			name := ""
			if p, found := r.s.products[s.ProductID]; found {
				name = p.Name
			}
			i = len(groups)
			index[s.ProductID] = i
			groups = append(groups, entity.ProductSales{ProductID: s.ProductID, ProductName: name, TotalRevenue: decimal.Zero})
		}
		groups[i].TotalQuantity += s.Quantity
		groups[i].TotalRevenue = groups[i].TotalRevenue.Add(s.TotalPrice)
	}
	unlock()

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalRevenue.GreaterThan(groups[j].TotalRevenue)
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}
