package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InwardItemRequest línea de una recepción de mercancía.
type InwardItemRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name,omitempty"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	MinStockLevel int64           `json:"min_stock_level,omitempty"`
	ReorderPoint  int64           `json:"reorder_point,omitempty"`
}

// InwardRequest body para POST /api/inward. El actor sale del token.
type InwardRequest struct {
	LocationID   string              `json:"location_id"`
	SupplierID   string              `json:"supplier_id"`
	ReceivedDate string              `json:"received_date,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Items        []InwardItemRequest `json:"items"`
}

// OutwardItemRequest línea de un despacho.
type OutwardItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// OutwardRequest body para POST /api/outward.
type OutwardRequest struct {
	LocationID   string               `json:"location_id"`
	Destination  string               `json:"destination"`
	TransferDate string               `json:"transfer_date,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	Items        []OutwardItemRequest `json:"items"`
}

// TransferItemRequest línea de un traslado. NewPrice re-precia el item destino.
type TransferItemRequest struct {
	SourceItemID string           `json:"source_item_id"`
	Quantity     int64            `json:"quantity"`
	NewPrice     *decimal.Decimal `json:"new_price,omitempty"`
}

// TransferRequest body para POST /api/transfers.
type TransferRequest struct {
	DestinationLocationID string                `json:"destination_location_id"`
	TransferDate          string                `json:"transfer_date,omitempty"`
	Notes                 string                `json:"notes,omitempty"`
	Items                 []TransferItemRequest `json:"items"`
}

// DamageRequest body para POST /api/damage (crea el reporte en PENDING).
type DamageRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
	Date     string `json:"date,omitempty"`
}

// MovementResponse representación de un movimiento del ledger.
type MovementResponse struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	ItemID         string    `json:"item_id"`
	Quantity       int64     `json:"quantity"`
	CounterpartyID string    `json:"counterparty_id,omitempty"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	Date           time.Time `json:"date"`
	ActorID        string    `json:"actor_id,omitempty"`
}

// ToMovementResponse mapea la entidad al DTO de respuesta.
func ToMovementResponse(m *entity.MovementEntry) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		Kind:           m.Kind,
		ItemID:         m.ItemID,
		Quantity:       m.Quantity,
		CounterpartyID: m.CounterpartyID,
		Status:         m.Status,
		Notes:          m.Notes,
		Date:           m.Date,
		ActorID:        m.ActorID,
	}
}

// ToMovementResponses mapea una lista de movimientos.
func ToMovementResponses(list []*entity.MovementEntry) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
