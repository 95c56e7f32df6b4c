package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateLocationRequest alta de ubicación.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // warehouse | inventory
	Address string `json:"address,omitempty"`
}

// LocationResponse representación de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToLocationResponse mapea la entidad al DTO.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name, Kind: l.Kind, Address: l.Address, CreatedAt: l.CreatedAt}
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSupplierResponse mapea la entidad al DTO.
func ToSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{ID: s.ID, Name: s.Name, Contact: s.Contact, CreatedAt: s.CreatedAt}
}
