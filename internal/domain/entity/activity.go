package entity

import "time"

// Acciones registradas en la bitácora de actividad.
const (
	ActionRegisterInward  = "REGISTER_INWARD"
	ActionRegisterOutward = "REGISTER_OUTWARD"
	ActionTransfer        = "TRANSFER"
	ActionReportDamage    = "REPORT_DAMAGE"
	ActionApproveDamage   = "APPROVE_DAMAGE"
	ActionRejectDamage    = "REJECT_DAMAGE"
	ActionCommitAudit     = "COMMIT_AUDIT"
	ActionAuditAdjustment = "AUDIT_ADJUSTMENT"
	ActionCreateItem      = "CREATE_ITEM"
	ActionDeleteItem      = "DELETE_ITEM"
)

// Tipos de entidad referenciados por la bitácora.
const (
	EntityTypeItem     = "item"
	EntityTypeMovement = "movement"
	EntityTypeAudit    = "audit"
)

// ActivityLog es una entrada de la bitácora de actividad: quién hizo qué sobre
// qué entidad. Se escribe exactamente una por entidad mutada, dentro de la misma
// transacción que la mutación que describe.
type ActivityLog struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}
