package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa el registro de stock de un SKU en una ubicación concreta.
// Quantity es el único campo que muta el motor de movimientos; debe coincidir
// en todo momento con la suma de los deltas firmados del ledger que lo referencian.
type Item struct {
	ID            string
	SKU           string
	Name          string
	LocationID    string
	LocationKind  string // warehouse | inventory
	Quantity      int64
	UnitCost      decimal.Decimal
	UnitPrice     decimal.Decimal
	MinStockLevel int64
	ReorderPoint  int64 // invariante: ReorderPoint <= MinStockLevel
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UpdatedBy     string // actor de la última mutación de cantidad
}

// BelowReorderPoint indica si el stock está en o por debajo del punto de reorden.
func (i *Item) BelowReorderPoint() bool {
	return i.Quantity <= i.ReorderPoint
}
