package entity

import "time"

// Tipos de movimiento del ledger.
const (
	MovementKindInward     = "INWARD"     // recepción de mercancía
	MovementKindOutward    = "OUTWARD"    // despacho / salida
	MovementKindDamage     = "DAMAGE"     // baja por daño (dos pasos: reporte + aprobación)
	MovementKindTransfer   = "TRANSFER"   // traslado entre ubicaciones
	MovementKindAdjustment = "ADJUSTMENT" // ajuste por auditoría física
)

// Estados de un movimiento. Solo DAMAGE usa PENDING/APPROVED/REJECTED;
// el resto nace COMPLETED.
const (
	MovementStatusPending   = "PENDING"
	MovementStatusApproved  = "APPROVED"
	MovementStatusRejected  = "REJECTED"
	MovementStatusCompleted = "COMPLETED"
)

// MovementEntry es un registro inmutable del ledger de movimientos. Quantity es
// magnitud positiva, salvo en ADJUSTMENT donde lleva el signo de la discrepancia.
// CounterpartyID depende del tipo: proveedor (INWARD), destino externo (OUTWARD),
// item destino (TRANSFER), auditoría de origen (ADJUSTMENT).
type MovementEntry struct {
	ID             string
	Kind           string
	ItemID         string
	Quantity       int64
	CounterpartyID string
	Status         string
	Notes          string
	Date           time.Time
	CreatedAt      time.Time
	ActorID        string
}

// Effective indica si el movimiento ya afecta cantidades (COMPLETED o APPROVED).
// Los DAMAGE pendientes o rechazados no alteran el stock.
func (m *MovementEntry) Effective() bool {
	return m.Status == MovementStatusCompleted || m.Status == MovementStatusApproved
}

// SignedDelta devuelve el delta firmado que este movimiento aporta a la cantidad
// del item indicado: inward:+, outward:-, damage aprobado:-, transfer saliente:-,
// transfer entrante:+, ajuste:±. Cero si el movimiento no referencia al item o
// aún no es efectivo. Define el invariante central del ledger:
// Item.Quantity == suma de SignedDelta de todos sus movimientos.
func (m *MovementEntry) SignedDelta(itemID string) int64 {
	if !m.Effective() {
		return 0
	}
	switch m.Kind {
	case MovementKindInward:
		if m.ItemID == itemID {
			return m.Quantity
		}
	case MovementKindOutward, MovementKindDamage:
		if m.ItemID == itemID {
			return -m.Quantity
		}
	case MovementKindTransfer:
		if m.ItemID == itemID {
			return -m.Quantity
		}
		if m.CounterpartyID == itemID {
			return m.Quantity
		}
	case MovementKindAdjustment:
		if m.ItemID == itemID {
			return m.Quantity // ya viene con signo
		}
	}
	return 0
}
