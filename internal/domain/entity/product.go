package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo de la tienda.
// DiscountPrice nil significa que no hay descuento activo.
// StockQuantity nunca es negativo; las ventas solo lo decrementan.
type Product struct {
	ID            int64
	Name          string
	Article       string // código de artículo del proveedor
	Package       string // presentación (frasco 50 ml, caja x12, ...)
	Category      string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	StockQuantity int
	Description   string
	CreatedAt     time.Time
}

// HasDiscount indica si hay un precio de descuento vigente.
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil && p.DiscountPrice.IsPositive()
}

// InStock indica si el producto puede ofrecerse en una venta.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Clone devuelve una copia independiente (incluido el puntero de descuento).
func (p *Product) Clone() *Product {
	cp := *p
	if p.DiscountPrice != nil {
		d := *p.DiscountPrice
		cp.DiscountPrice = &d
	}
	return &cp
}
