package entity

import "time"

// AuditRecord es la cabecera de una auditoría física de inventario en una ubicación.
type AuditRecord struct {
	ID                 string
	LocationID         string
	AuditDate          time.Time
	ConductedBy        string
	ItemsAudited       int
	DiscrepanciesFound int
	Notes              string
	CreatedAt          time.Time
}

// AuditLineItem es el conteo de un item dentro de una auditoría.
// ExpectedQuantity es el snapshot de Item.Quantity al momento del commit
// (recalculado en servidor, nunca confiado del cliente); Discrepancy = actual - expected.
type AuditLineItem struct {
	ID               string
	AuditID          string
	ItemID           string
	ExpectedQuantity int64
	ActualQuantity   int64
	Discrepancy      int64
	Notes            string
	Applied          bool // true si la discrepancia se aplicó al Item
}
