package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateItemRequest alta explícita de un item por un administrador (quantity nace en 0;
// el stock solo entra por el ledger).
type CreateItemRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	LocationID    string          `json:"location_id"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	MinStockLevel int64           `json:"min_stock_level"`
	ReorderPoint  int64           `json:"reorder_point"`
}

// ItemResponse representación de un item.
type ItemResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	LocationID    string          `json:"location_id"`
	LocationKind  string          `json:"location_kind"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	MinStockLevel int64           `json:"min_stock_level"`
	ReorderPoint  int64           `json:"reorder_point"`
	UpdatedAt     time.Time       `json:"updated_at"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU en o por
// debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	LocationID         string          `json:"location_id"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderPoint       int64           `json:"reorder_point"`
	MinStockLevel      int64           `json:"min_stock_level"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
}

// ToItemResponse mapea la entidad al DTO de respuesta.
func ToItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:            i.ID,
		SKU:           i.SKU,
		Name:          i.Name,
		LocationID:    i.LocationID,
		LocationKind:  i.LocationKind,
		Quantity:      i.Quantity,
		UnitCost:      i.UnitCost,
		UnitPrice:     i.UnitPrice,
		MinStockLevel: i.MinStockLevel,
		ReorderPoint:  i.ReorderPoint,
		UpdatedAt:     i.UpdatedAt,
		UpdatedBy:     i.UpdatedBy,
	}
}

// ToItemResponses mapea una lista de items.
func ToItemResponses(list []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, ToItemResponse(i))
	}
	return out
}
