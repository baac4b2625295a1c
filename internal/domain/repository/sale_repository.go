package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// SaleRepository es el libro de ventas (solo inserción).
// Todos los listados devuelven primero la venta más reciente.
type SaleRepository interface {
	// Append persiste la línea y completa ID y SaleDate.
	Append(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	ListAll(ctx context.Context) ([]*entity.Sale, error)
	ListByCashier(ctx context.Context, cashierID int64) ([]*entity.Sale, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Sale, error)
	// ListInRange incluye ambos extremos: start <= sale_date <= end.
	ListInRange(ctx context.Context, start, end time.Time) ([]*entity.Sale, error)
}
