package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	// ErrTxConflict indica que la transacción falló por concurrencia tras agotar
	// los reintentos. El caller puede repetir la operación completa.
	ErrTxConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// InsufficientStockError transporta el detalle de un rechazo por stock insuficiente
// (disponible vs solicitado) para que el caller pueda mostrar un mensaje correctivo.
// Se desenvuelve a ErrInsufficientStock para comparar con errors.Is.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d",
		e.ItemName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
