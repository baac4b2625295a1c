package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUsernameTaken     = errors.New("el nombre de usuario ya existe")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSelfDelete        = errors.New("no puede eliminar su propia cuenta")

	// ErrStockInvariant indica un descuento de stock que dejaría la existencia en negativo
	// después de que la validación de la venta fue aprobada.
	ErrStockInvariant = errors.New("violación de invariante: stock negativo")
	// ErrSaleCommitFailed envuelve cualquier falla durante la fase de registro de una venta.
	// La transacción se revierte completa; ninguna línea queda registrada.
	ErrSaleCommitFailed = errors.New("no se pudo registrar la venta")
)
