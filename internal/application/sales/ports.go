package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ninguna escritura de fn.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Recorder recibe los eventos de venta para métricas.
type Recorder interface {
	SaleCreated(lines int, total decimal.Decimal)
	SaleRejected(kind domain.SaleErrorKind)
	SaleFailed()
}

type nopRecorder struct{}

func (nopRecorder) SaleCreated(int, decimal.Decimal)   {}
func (nopRecorder) SaleRejected(domain.SaleErrorKind) {}
func (nopRecorder) SaleFailed()                        {}
