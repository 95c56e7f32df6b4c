package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del ledger.
// ItemID coincide tanto con item_id como con counterparty_id (lado entrante de
// los TRANSFER).
type MovementFilter struct {
	ItemID string
	Kind   string
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del ledger de movimientos
// (append-only; solo el status de los DAMAGE transiciona).
type MovementRepository interface {
	Create(entry *entity.MovementEntry) error
	GetByID(id string) (*entity.MovementEntry, error)
	GetByIDForUpdate(id string) (*entity.MovementEntry, error)
	// UpdateStatus transiciona status de from a to. Si la fila ya no está en from
	// (doble aprobación concurrente) devuelve domain.ErrInvalidStateTransition.
	UpdateStatus(id, from, to string) error
	List(filter MovementFilter) ([]*entity.MovementEntry, error)
	// CountByItem cuenta los movimientos que referencian al item (incluye el lado
	// counterparty de los TRANSFER). Usado por el guard de borrado de items.
	CountByItem(itemID string) (int, error)
}
