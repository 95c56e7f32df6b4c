package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo implementación de ActivityRepository sobre PostgreSQL.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador de la bitácora de actividad.
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create inserta una entrada de la bitácora.
func (r *ActivityRepo) Create(log *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, actor_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, nullable(log.ActorID), log.Action, log.EntityType, log.EntityID,
		nullable(log.Detail), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List consulta la bitácora con filtros opcionales, más reciente primero.
func (r *ActivityRepo) List(filter repository.ActivityFilter) ([]*entity.ActivityLog, error) {
	builder := sq.Select("id, actor_id, action, entity_type, entity_id, detail, created_at").
		From("activity_logs").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC")

	if filter.ActorID != "" {
		builder = builder.Where(sq.Eq{"actor_id": filter.ActorID})
	}
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": filter.Action})
	}
	if filter.EntityType != "" {
		builder = builder.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if filter.EntityID != "" {
		builder = builder.Where(sq.Eq{"entity_id": filter.EntityID})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build activity query: %w", err)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		var actor, detail *string
		err := rows.Scan(&l.ID, &actor, &l.Action, &l.EntityType, &l.EntityID, &detail, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		if actor != nil {
			l.ActorID = *actor
		}
		if detail != nil {
			l.Detail = *detail
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
