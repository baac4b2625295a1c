package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest una línea del carrito.
type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateSaleRequest body de POST /api/sales.
// Acepta Items, o bien las listas paralelas ProductIDs/Quantities del formulario de caja; no ambos.
type CreateSaleRequest struct {
	Items      []CartItemRequest `json:"items,omitempty"`
	ProductIDs []int64           `json:"product_ids,omitempty" form:"product_ids"`
	Quantities []int             `json:"quantities,omitempty" form:"quantities"`
	Confirmed  bool              `json:"confirmed" form:"confirmed"`
}

// SaleDTO línea del libro de ventas con el nombre del producto (vacío si fue eliminado).
type SaleDTO struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	CashierID     int64           `json:"cashier_id"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SaleDate      time.Time       `json:"sale_date"`
}

// SaleResultDTO respuesta de una venta aceptada.
type SaleResultDTO struct {
	TransactionID string          `json:"transaction_id"`
	LinesCreated  int             `json:"lines_created"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Sales         []SaleDTO       `json:"sales"`
}

// SaleListDTO listado de ventas con su suma.
type SaleListDTO struct {
	Items       []SaleDTO       `json:"items"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SaleErrorDTO un rechazo de la venta.
type SaleErrorDTO struct {
	Code      string `json:"code"`
	ProductID int64  `json:"product_id,omitempty"`
	Available *int   `json:"available,omitempty"`
	Message   string `json:"message"`
}

// SaleRejectedResponse cuerpo 422 cuando la venta no se registra.
type SaleRejectedResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Errors  []SaleErrorDTO `json:"errors"`
}
