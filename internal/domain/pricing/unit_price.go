package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ResolveUnitPrice devuelve el precio unitario efectivo (servicio de dominio):
// DiscountPrice si está definido y es mayor que cero, en otro caso Price.
// Debe llamarse por línea con el estado actual del producto.
func ResolveUnitPrice(p *entity.Product) decimal.Decimal {
	if p.HasDiscount() {
		return *p.DiscountPrice
	}
	return p.Price
}

// LineTotal = PrecioUnitarioEfectivo * Cantidad
func LineTotal(p *entity.Product, quantity int) decimal.Decimal {
	return ResolveUnitPrice(p).Mul(decimal.NewFromInt(int64(quantity)))
}
