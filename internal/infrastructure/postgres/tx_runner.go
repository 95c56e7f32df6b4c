package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appaudit "github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner y audit.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ appaudit.TxRunner = (*TxRunner)(nil)

// maxTxAttempts reintentos ante conflictos de serialización/deadlock antes de
// rendirse con ErrTxConflict.
const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Ante un
// fallo retryable (40001/40P01) reintenta el callback completo desde la
// lectura: nunca se reanuda una transacción a medias.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	activity repository.ActivityRepository,
) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		return r.runOnce(ctx, func(tx Querier) error {
			return fn(NewItemRepository(tx), NewMovementRepository(tx), NewActivityRepository(tx))
		})
	})
}

// RunAudit inicia una transacción con los repos de inventario y auditoría (para CommitAudit).
func (r *TxRunner) RunAudit(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	audits repository.AuditRepository,
	activity repository.ActivityRepository,
) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		return r.runOnce(ctx, func(tx Querier) error {
			return fn(NewItemRepository(tx), NewMovementRepository(tx), NewAuditRepository(tx), NewActivityRepository(tx))
		})
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *TxRunner) withRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	var err error
	for i := 0; i < maxTxAttempts; i++ {
		err = attempt(ctx)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
}
