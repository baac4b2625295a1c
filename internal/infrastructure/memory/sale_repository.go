package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas en memoria (solo inserción).
type SaleRepo struct {
	s    *Store
	undo *undoLog
}

func (r *SaleRepo) Append(_ context.Context, sale *entity.Sale) error {
	if r.undo == nil {
		r.s.txMu.Lock()
		defer r.s.txMu.Unlock()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextSaleID++
	sale.ID = r.s.nextSaleID
	sale.SaleDate = r.s.now()
	stored := *sale
	r.s.sales = append(r.s.sales, &stored)

	id := sale.ID
	r.undo.record(func() { r.s.removeSale(id) })
	return nil
}

// removeSale solo se usa al deshacer una transacción. Requiere s.mu tomado.
func (s *Store) removeSale(id int64) {
	for i := len(s.sales) - 1; i >= 0; i-- {
		if s.sales[i].ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return
		}
	}
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	defer r.s.readLock(r.undo != nil)()
	for _, s := range r.s.sales {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) ListAll(_ context.Context) ([]*entity.Sale, error) {
	return r.filter(func(*entity.Sale) bool { return true }), nil
}

func (r *SaleRepo) ListByCashier(_ context.Context, cashierID int64) ([]*entity.Sale, error) {
	return r.filter(func(s *entity.Sale) bool { return s.CashierID == cashierID }), nil
}

func (r *SaleRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.Sale, error) {
	return r.filter(func(s *entity.Sale) bool { return s.ProductID == productID }), nil
}

func (r *SaleRepo) ListInRange(_ context.Context, start, end time.Time) ([]*entity.Sale, error) {
	return r.filter(func(s *entity.Sale) bool { return inRange(s.SaleDate, start, end) }), nil
}

// filter copia las ventas que cumplen keep, la más reciente primero.
func (r *SaleRepo) filter(keep func(*entity.Sale) bool) []*entity.Sale {
	unlock := r.s.readLock(r.undo != nil)
	var out []*entity.Sale
	for _, s := range r.s.sales {
		if keep(s) {
			cp := *s
			out = append(out, &cp)
		}
	}
	unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
