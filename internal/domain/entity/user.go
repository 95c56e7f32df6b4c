package entity

import "time"

// Roles de usuario. Los roles autorizados a aprobar bajas por daño
// se definen por configuración (Inventory.DamageApprovers).
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// User representa un usuario del sistema (actor de las operaciones).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
