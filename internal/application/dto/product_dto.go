package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para crear producto.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Article       string           `json:"article" validate:"max=100"`
	Package       string           `json:"package" validate:"max=100"`
	Category      string           `json:"category" validate:"required,max=100"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	StockQuantity int              `json:"stock_quantity" validate:"min=0"`
	Description   string           `json:"description"`
}

// UpdateProductRequest body para actualización parcial (nil = sin cambio). No toca el descuento.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Article       *string          `json:"article,omitempty" validate:"omitempty,max=100"`
	Package       *string          `json:"package,omitempty" validate:"omitempty,max=100"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Description   *string          `json:"description,omitempty"`
}

// SetDiscountRequest body de PUT /api/products/:id/discount. null o ausente elimina el descuento.
type SetDiscountRequest struct {
	DiscountPrice *decimal.Decimal `json:"discount_price"`
}

// ProductListRequest filtros de GET /api/products.
type ProductListRequest struct {
	Category    string `query:"category"`
	Search      string `query:"search"`
	OnlyInStock bool   `query:"in_stock"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Article        string           `json:"article"`
	Package        string           `json:"package"`
	Category       string           `json:"category"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	StockQuantity  int              `json:"stock_quantity"`
	Description    string           `json:"description"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ProductListResponse listado con las categorías disponibles para el filtro.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Categories []string          `json:"categories"`
}
