package audit

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta el commit de una auditoría dentro de una transacción de BD,
// con los repositorios atados a esa tx. Una auditoría aplica todas sus líneas
// o ninguna, para que discrepancies_found refleje lo realmente aplicado.
type TxRunner interface {
	RunAudit(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		audits repository.AuditRepository,
		activity repository.ActivityRepository,
	) error) error
}
