package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditorías.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// CreateRecord inserta la cabecera de una auditoría.
func (r *AuditRepo) CreateRecord(record *entity.AuditRecord) error {
	query := `
		INSERT INTO audits (id, location_id, audit_date, conducted_by, items_audited,
			discrepancies_found, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.LocationID, record.AuditDate, record.ConductedBy,
		record.ItemsAudited, record.DiscrepanciesFound, nullable(record.Notes), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// CreateLineItem inserta una línea de conteo de la auditoría.
func (r *AuditRepo) CreateLineItem(line *entity.AuditLineItem) error {
	query := `
		INSERT INTO audit_line_items (id, audit_id, item_id, expected_quantity,
			actual_quantity, discrepancy, notes, applied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.AuditID, line.ItemID, line.ExpectedQuantity,
		line.ActualQuantity, line.Discrepancy, nullable(line.Notes), line.Applied,
	)
	if err != nil {
		return fmt.Errorf("insert audit line: %w", err)
	}
	return nil
}

// UpdateTotals fija los contadores de la cabecera una vez procesadas las líneas.
func (r *AuditRepo) UpdateTotals(auditID string, itemsAudited, discrepanciesFound int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE audits SET items_audited = $2, discrepancies_found = $3 WHERE id = $1`,
		auditID, itemsAudited, discrepanciesFound,
	)
	if err != nil {
		return fmt.Errorf("update audit totals: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetRecord obtiene la cabecera de una auditoría.
func (r *AuditRepo) GetRecord(id string) (*entity.AuditRecord, error) {
	query := `
		SELECT id, location_id, audit_date, conducted_by, items_audited,
			discrepancies_found, notes, created_at
		FROM audits WHERE id = $1`
	record, err := scanAudit(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return record, nil
}

// ListRecords lista auditorías de una ubicación, más recientes primero.
// locationID vacío lista todas.
func (r *AuditRepo) ListRecords(locationID string, limit, offset int) ([]*entity.AuditRecord, error) {
	query := `
		SELECT id, location_id, audit_date, conducted_by, items_audited,
			discrepancies_found, notes, created_at
		FROM audits
		WHERE ($1 = '' OR location_id = $1)
		ORDER BY audit_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditRecord
	for rows.Next() {
		record, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, record)
	}
	return list, rows.Err()
}

// ListLineItems lista las líneas de conteo de una auditoría.
func (r *AuditRepo) ListLineItems(auditID string) ([]*entity.AuditLineItem, error) {
	query := `
		SELECT id, audit_id, item_id, expected_quantity, actual_quantity,
			discrepancy, notes, applied
		FROM audit_line_items WHERE audit_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, auditID)
	if err != nil {
		return nil, fmt.Errorf("list audit lines: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLineItem
	for rows.Next() {
		var l entity.AuditLineItem
		var notes *string
		err := rows.Scan(&l.ID, &l.AuditID, &l.ItemID, &l.ExpectedQuantity,
			&l.ActualQuantity, &l.Discrepancy, &notes, &l.Applied)
		if err != nil {
			return nil, fmt.Errorf("scan audit line: %w", err)
		}
		if notes != nil {
			l.Notes = *notes
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func scanAudit(row pgx.Row) (*entity.AuditRecord, error) {
	var a entity.AuditRecord
	var notes *string
	err := row.Scan(&a.ID, &a.LocationID, &a.AuditDate, &a.ConductedBy,
		&a.ItemsAudited, &a.DiscrepanciesFound, &notes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}
