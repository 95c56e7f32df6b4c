package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// applyDelta es el único mutador de cantidad del motor: aplica el delta firmado
// al item (previamente bloqueado con FOR UPDATE) y persiste. Rechaza cualquier
// resultado negativo con InsufficientStockError; nunca recorta a cero.
func applyDelta(items repository.ItemRepository, item *entity.Item, delta int64, actorID string, now time.Time) error {
	if item.Quantity+delta < 0 {
		return &domain.InsufficientStockError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Available: item.Quantity,
			Requested: -delta,
		}
	}
	item.Quantity += delta
	item.UpdatedAt = now
	item.UpdatedBy = actorID
	return items.Update(item)
}

// logActivity escribe una entrada de bitácora dentro de la transacción en curso.
func logActivity(activity repository.ActivityRepository, actorID, action, entityType, entityID, detail string, now time.Time) error {
	return activity.Create(&entity.ActivityLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  now,
	})
}
