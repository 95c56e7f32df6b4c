package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestSignedDelta_PorTipo(t *testing.T) {
	const itemID = "item-1"
	const otherID = "item-2"

	cases := []struct {
		name  string
		entry entity.MovementEntry
		want  int64
	}{
		{"inward suma", entity.MovementEntry{Kind: entity.MovementKindInward, ItemID: itemID, Quantity: 10, Status: entity.MovementStatusCompleted}, 10},
		{"outward resta", entity.MovementEntry{Kind: entity.MovementKindOutward, ItemID: itemID, Quantity: 4, Status: entity.MovementStatusCompleted}, -4},
		{"damage aprobado resta", entity.MovementEntry{Kind: entity.MovementKindDamage, ItemID: itemID, Quantity: 3, Status: entity.MovementStatusApproved}, -3},
		{"damage pendiente no afecta", entity.MovementEntry{Kind: entity.MovementKindDamage, ItemID: itemID, Quantity: 3, Status: entity.MovementStatusPending}, 0},
		{"damage rechazado no afecta", entity.MovementEntry{Kind: entity.MovementKindDamage, ItemID: itemID, Quantity: 3, Status: entity.MovementStatusRejected}, 0},
		{"transfer saliente resta", entity.MovementEntry{Kind: entity.MovementKindTransfer, ItemID: itemID, CounterpartyID: otherID, Quantity: 5, Status: entity.MovementStatusCompleted}, -5},
		{"transfer entrante suma", entity.MovementEntry{Kind: entity.MovementKindTransfer, ItemID: otherID, CounterpartyID: itemID, Quantity: 5, Status: entity.MovementStatusCompleted}, 5},
		{"ajuste negativo firmado", entity.MovementEntry{Kind: entity.MovementKindAdjustment, ItemID: itemID, Quantity: -2, Status: entity.MovementStatusCompleted}, -2},
		{"ajuste positivo firmado", entity.MovementEntry{Kind: entity.MovementKindAdjustment, ItemID: itemID, Quantity: 7, Status: entity.MovementStatusCompleted}, 7},
		{"movimiento de otro item no afecta", entity.MovementEntry{Kind: entity.MovementKindInward, ItemID: otherID, Quantity: 10, Status: entity.MovementStatusCompleted}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.entry.SignedDelta(itemID))
		})
	}
}

// La cantidad del item debe ser igual a la suma de los deltas firmados de su
// historial: recepción de 100, despacho de 30, traslado saliente de 40 y
// ajuste de auditoría a un conteo físico de 28.
func TestSignedDelta_SumaDelLedger(t *testing.T) {
	const itemID = "item-1"

	history := []entity.MovementEntry{
		{Kind: entity.MovementKindInward, ItemID: itemID, Quantity: 100, Status: entity.MovementStatusCompleted},
		{Kind: entity.MovementKindOutward, ItemID: itemID, Quantity: 30, Status: entity.MovementStatusCompleted},
		{Kind: entity.MovementKindTransfer, ItemID: itemID, CounterpartyID: "item-2", Quantity: 40, Status: entity.MovementStatusCompleted},
		// Conteo físico 28 contra 30 esperados: ajuste de -2.
		{Kind: entity.MovementKindAdjustment, ItemID: itemID, Quantity: -2, Status: entity.MovementStatusCompleted},
	}

	var total int64
	for _, m := range history {
		total += m.SignedDelta(itemID)
	}
	assert.Equal(t, int64(28), total)
}

func TestEffective(t *testing.T) {
	assert.True(t, (&entity.MovementEntry{Status: entity.MovementStatusCompleted}).Effective())
	assert.True(t, (&entity.MovementEntry{Status: entity.MovementStatusApproved}).Effective())
	assert.False(t, (&entity.MovementEntry{Status: entity.MovementStatusPending}).Effective())
	assert.False(t, (&entity.MovementEntry{Status: entity.MovementStatusRejected}).Effective())
}
