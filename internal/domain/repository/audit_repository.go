package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// AuditRepository define el puerto de persistencia para auditorías físicas
// (cabecera + líneas de conteo).
type AuditRepository interface {
	CreateRecord(record *entity.AuditRecord) error
	CreateLineItem(line *entity.AuditLineItem) error
	// UpdateTotals fija los contadores de la cabecera una vez procesadas las líneas.
	UpdateTotals(auditID string, itemsAudited, discrepanciesFound int) error
	GetRecord(id string) (*entity.AuditRecord, error)
	ListRecords(locationID string, limit, offset int) ([]*entity.AuditRecord, error)
	ListLineItems(auditID string) ([]*entity.AuditLineItem, error)
}
