package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una línea vendida del libro de ventas. Es inmutable una vez creada.
// TotalPrice queda congelado al precio unitario resuelto por la cantidad.
// TransactionID agrupa las líneas de un mismo carrito.
type Sale struct {
	ID            int64
	TransactionID string
	ProductID     int64
	CashierID     int64
	Quantity      int
	TotalPrice    decimal.Decimal
	SaleDate      time.Time
}

// ProductSales es el acumulado por producto usado en el ranking de ventas.
type ProductSales struct {
	ProductID     int64
	ProductName   string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}
