package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los adaptadores de
// persistencia envuelven sus fallos con %w y los casos de uso los dejan pasar
// tal cual; la capa HTTP es la única que los traduce a códigos de respuesta.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrConflict se devuelve cuando la transacción de un movimiento agotó los
	// reintentos por fallos de serialización o deadlock.
	ErrConflict = errors.New("conflicto con el estado actual")

	// ErrInsufficientStock: una salida dejaría el stock en negativo.
	ErrInsufficientStock = errors.New("stock insuficiente")
)
