package usecase

import (
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ActivityUseCase consulta de la bitácora de actividad. La escritura la hacen
// los motores de movimientos y auditoría dentro de sus transacciones.
type ActivityUseCase struct {
	activityRepo repository.ActivityRepository
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(activityRepo repository.ActivityRepository) *ActivityUseCase {
	return &ActivityUseCase{activityRepo: activityRepo}
}

// List consulta la bitácora con filtros opcionales.
func (uc *ActivityUseCase) List(filter repository.ActivityFilter) ([]*entity.ActivityLog, error) {
	return uc.activityRepo.List(filter)
}
