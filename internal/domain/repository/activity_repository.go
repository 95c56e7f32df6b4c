package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ActivityFilter filtros para consultar la bitácora de actividad.
type ActivityFilter struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ActivityRepository define el puerto de la bitácora de actividad (colaborador
// de cumplimiento: el core la escribe, no la posee).
type ActivityRepository interface {
	Create(log *entity.ActivityLog) error
	List(filter ActivityFilter) ([]*entity.ActivityLog, error)
}
