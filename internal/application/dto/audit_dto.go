package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// AuditItemRequest conteo físico de un item dentro del commit de auditoría.
// ExpectedQuantity del cliente se ignora: el servidor recalcula la discrepancia
// contra la cantidad actual para evitar corrupción por lecturas obsoletas.
type AuditItemRequest struct {
	ItemID          string `json:"item_id"`
	ActualQuantity  int64  `json:"actual_quantity"`
	Notes           string `json:"notes,omitempty"`
	UpdateInventory bool   `json:"update_inventory"`
}

// AuditCommitRequest body para POST /api/inventory/audit.
type AuditCommitRequest struct {
	LocationID string             `json:"location_id"`
	AuditDate  string             `json:"audit_date,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	Items      []AuditItemRequest `json:"items"`
}

// AuditLineResponse línea de auditoría persistida.
type AuditLineResponse struct {
	ID               string `json:"id"`
	AuditID          string `json:"audit_id"`
	ItemID           string `json:"item_id"`
	ExpectedQuantity int64  `json:"expected_quantity"`
	ActualQuantity   int64  `json:"actual_quantity"`
	Discrepancy      int64  `json:"discrepancy"`
	Notes            string `json:"notes,omitempty"`
	Applied          bool   `json:"applied"`
}

// AuditResponse cabecera de auditoría persistida.
type AuditResponse struct {
	ID                 string    `json:"id"`
	LocationID         string    `json:"location_id"`
	AuditDate          time.Time `json:"audit_date"`
	ConductedBy        string    `json:"conducted_by"`
	ItemsAudited       int       `json:"items_audited"`
	DiscrepanciesFound int       `json:"discrepancies_found"`
	Notes              string    `json:"notes,omitempty"`
}

// AuditCandidateResponse línea precargada por GET /api/inventory/audit/start:
// expected = actual = cantidad vigente del item (el auditor sobreescribe actual).
type AuditCandidateResponse struct {
	ItemID           string `json:"item_id"`
	SKU              string `json:"sku"`
	Name             string `json:"name"`
	ExpectedQuantity int64  `json:"expected_quantity"`
	ActualQuantity   int64  `json:"actual_quantity"`
}

// ToAuditResponse mapea la cabecera de auditoría.
func ToAuditResponse(a *entity.AuditRecord) AuditResponse {
	return AuditResponse{
		ID:                 a.ID,
		LocationID:         a.LocationID,
		AuditDate:          a.AuditDate,
		ConductedBy:        a.ConductedBy,
		ItemsAudited:       a.ItemsAudited,
		DiscrepanciesFound: a.DiscrepanciesFound,
		Notes:              a.Notes,
	}
}

// ToAuditLineResponses mapea las líneas de auditoría.
func ToAuditLineResponses(lines []*entity.AuditLineItem) []AuditLineResponse {
	out := make([]AuditLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, AuditLineResponse{
			ID:               l.ID,
			AuditID:          l.AuditID,
			ItemID:           l.ItemID,
			ExpectedQuantity: l.ExpectedQuantity,
			ActualQuantity:   l.ActualQuantity,
			Discrepancy:      l.Discrepancy,
			Notes:            l.Notes,
			Applied:          l.Applied,
		})
	}
	return out
}
