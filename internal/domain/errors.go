package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrNotRegistered     = errors.New("cuenta no registrada")
	ErrNotAuthorized     = errors.New("operación reservada a administradores")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrDuplicateProduct  = errors.New("producto duplicado")
	ErrUnknownSelection  = errors.New("selección no corresponde a ninguna opción")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStoreUnavailable  = errors.New("almacén de datos no disponible")
)
