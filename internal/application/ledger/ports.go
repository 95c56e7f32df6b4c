package ledger

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad de cada operación del
// ledger: débito + crédito + asiento + bitácora aplican todos o ninguno.
// La implementación reintenta el callback completo ante conflictos de
// serialización detectados (nunca se reanuda una transacción a medias).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error) error
}
