package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ProductFilter filtra el listado del catálogo. Campos vacíos no filtran.
type ProductFilter struct {
	Category    string
	NameQuery   string // búsqueda por nombre, sin distinguir mayúsculas
	OnlyInStock bool
}

// ProductPatch cambios de catálogo; nil = sin cambio.
// StockQuantity solo se escribe cuando viene informado, así una edición
// no pisa los descuentos hechos por ventas concurrentes.
type ProductPatch struct {
	Name          *string
	Article       *string
	Package       *string
	Category      *string
	Price         *decimal.Decimal
	StockQuantity *int
	Description   *string
}

// IsEmpty indica si el patch no cambia nada.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Article == nil && p.Package == nil && p.Category == nil &&
		p.Price == nil && p.StockQuantity == nil && p.Description == nil
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción en curso.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update aplica el patch en una sola escritura y devuelve el producto resultante.
	// No modifica el descuento.
	Update(ctx context.Context, id int64, patch ProductPatch) (*entity.Product, error)
	// SetDiscount fija el precio de descuento; nil lo elimina.
	SetDiscount(ctx context.Context, id int64, discount *decimal.Decimal) error
	// DecrementStock resta by unidades y devuelve el producto actualizado.
	// Rechaza con domain.ErrStockInvariant si el stock quedaría negativo.
	DecrementStock(ctx context.Context, id int64, by int) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id int64) error
}
