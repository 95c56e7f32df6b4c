package entity

import "time"

// Tipos de ubicación: bodega de almacenamiento (warehouse) o punto de venta (inventory).
const (
	LocationKindWarehouse = "warehouse"
	LocationKindInventory = "inventory"
)

// Location representa una ubicación física donde se almacena stock.
type Location struct {
	ID        string
	Name      string
	Kind      string // warehouse | inventory
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidLocationKind indica si el tipo de ubicación es uno de los soportados.
func ValidLocationKind(kind string) bool {
	return kind == LocationKindWarehouse || kind == LocationKindInventory
}
