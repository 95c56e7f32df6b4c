package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, kind, item_id, quantity, counterparty_id, status, notes, date, created_at, actor_id`

func scanMovement(row pgx.Row) (*entity.MovementEntry, error) {
	var m entity.MovementEntry
	var counterparty, notes, actor *string
	err := row.Scan(
		&m.ID, &m.Kind, &m.ItemID, &m.Quantity, &counterparty,
		&m.Status, &notes, &m.Date, &m.CreatedAt, &actor,
	)
	if err != nil {
		return nil, err
	}
	if counterparty != nil {
		m.CounterpartyID = *counterparty
	}
	if notes != nil {
		m.Notes = *notes
	}
	if actor != nil {
		m.ActorID = *actor
	}
	return &m, nil
}

// Create inserta un movimiento en el ledger.
func (r *MovementRepo) Create(entry *entity.MovementEntry) error {
	query := `
		INSERT INTO movement_entries (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Kind, entry.ItemID, entry.Quantity, nullable(entry.CounterpartyID),
		entry.Status, nullable(entry.Notes), entry.Date, entry.CreatedAt, nullable(entry.ActorID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE id = $1`
	entry, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return entry, nil
}

// GetByIDForUpdate obtiene un movimiento y bloquea la fila. Usado en la
// aprobación de daños para serializar aprobaciones concurrentes.
func (r *MovementRepo) GetByIDForUpdate(id string) (*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE id = $1 FOR UPDATE`
	entry, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}
	return entry, nil
}

// UpdateStatus transiciona el status de from a to. El predicado sobre el estado
// actual hace la transición idempotente frente a carreras: si otra transacción
// ya movió la fila fuera de from, aquí no se afecta ninguna fila.
func (r *MovementRepo) UpdateStatus(id, from, to string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE movement_entries SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

// List consulta el ledger con filtros opcionales, en orden cronológico inverso.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	builder := sq.Select(movementColumns).
		From("movement_entries").
		PlaceholderFormat(sq.Dollar).
		OrderBy("date DESC, created_at DESC")

	if filter.ItemID != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"item_id": filter.ItemID},
			sq.Eq{"counterparty_id": filter.ItemID},
		})
	}
	if filter.Kind != "" {
		builder = builder.Where(sq.Eq{"kind": filter.Kind})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"date": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build movement query: %w", err)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementEntry
	for rows.Next() {
		entry, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

// CountByItem cuenta los movimientos que referencian al item por cualquiera de
// sus dos lados.
func (r *MovementRepo) CountByItem(itemID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movement_entries WHERE item_id = $1 OR counterparty_id = $1`,
		itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return count, nil
}
