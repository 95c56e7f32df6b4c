package entity

import "time"

// Supplier representa un proveedor de mercancía (contraparte de los INWARD).
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
