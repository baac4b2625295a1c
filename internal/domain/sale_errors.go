package domain

import (
	"fmt"
	"strings"
)

// SaleErrorKind clasifica el rechazo de una venta.
type SaleErrorKind string

// Errores de entrada (se reportan antes de consultar productos).
const (
	SaleErrNotConfirmed      SaleErrorKind = "NOT_CONFIRMED"
	SaleErrEmptyCart         SaleErrorKind = "EMPTY_CART"
	SaleErrLineCountMismatch SaleErrorKind = "LINE_COUNT_MISMATCH"
)

// Errores de validación (se acumulan por línea del carrito).
const (
	SaleErrProductNotFound   SaleErrorKind = "PRODUCT_NOT_FOUND"
	SaleErrInvalidQuantity   SaleErrorKind = "INVALID_QUANTITY"
	SaleErrInsufficientStock SaleErrorKind = "INSUFFICIENT_STOCK"
)

// SaleError describe un rechazo concreto. ProductID y Available solo aplican
// a los errores de validación por línea.
type SaleError struct {
	Kind      SaleErrorKind
	ProductID int64
	Available int
}

func (e *SaleError) Error() string {
	switch e.Kind {
	case SaleErrNotConfirmed:
		return "la venta no fue confirmada"
	case SaleErrEmptyCart:
		return "el carrito está vacío"
	case SaleErrLineCountMismatch:
		return "la cantidad de productos y de cantidades no coincide"
	case SaleErrProductNotFound:
		return fmt.Sprintf("producto con ID %d no encontrado", e.ProductID)
	case SaleErrInvalidQuantity:
		return fmt.Sprintf("cantidad inválida para el producto ID %d", e.ProductID)
	case SaleErrInsufficientStock:
		return fmt.Sprintf("stock insuficiente para el producto ID %d. Disponible: %d", e.ProductID, e.Available)
	default:
		return string(e.Kind)
	}
}

// Is permite errors.Is(err, domain.ErrInsufficientStock) y similares.
func (e *SaleError) Is(target error) bool {
	switch e.Kind {
	case SaleErrProductNotFound:
		return target == ErrProductNotFound || target == ErrNotFound
	case SaleErrInsufficientStock:
		return target == ErrInsufficientStock
	default:
		return target == ErrInvalidInput
	}
}

// IsInputError indica si el error se detecta sin consultar el catálogo.
func (e *SaleError) IsInputError() bool {
	switch e.Kind {
	case SaleErrNotConfirmed, SaleErrEmptyCart, SaleErrLineCountMismatch:
		return true
	}
	return false
}

// SaleErrors agrupa los rechazos de una venta en el orden del carrito.
type SaleErrors []*SaleError

func (errs SaleErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (errs SaleErrors) Unwrap() []error {
	out := make([]error, 0, len(errs))
	for _, e := range errs {
		out = append(out, e)
	}
	return out
}

// Kinds devuelve los tipos de error en orden.
func (errs SaleErrors) Kinds() []SaleErrorKind {
	out := make([]SaleErrorKind, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Kind)
	}
	return out
}

// NewSaleInputError construye el rechazo único de un error de entrada.
func NewSaleInputError(kind SaleErrorKind) SaleErrors {
	return SaleErrors{{Kind: kind}}
}
