package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (stock por SKU+ubicación).
// Los métodos ForUpdate bloquean la fila (SELECT FOR UPDATE) y solo tienen sentido
// dentro de una transacción (repos construidos por el TxRunner).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByIDForUpdate(id string) (*entity.Item, error)
	GetBySKUAndLocation(sku, locationID string) (*entity.Item, error)
	// FindOrCreateForUpdate obtiene el item por (sku, location_id) o lo crea si no
	// existe, en una sola sentencia atómica (upsert sobre la constraint única) que
	// además deja la fila bloqueada. Devuelve created=true si se insertó.
	FindOrCreateForUpdate(defaults *entity.Item) (item *entity.Item, created bool, err error)
	// Update persiste los campos mutables (quantity, costos, precio, updated_at/by).
	Update(item *entity.Item) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.Item, error)
	// ListBelowReorder lista los items con quantity <= reorder_point. locationID
	// vacío consulta todas las ubicaciones.
	ListBelowReorder(locationID string) ([]*entity.Item, error)
	Delete(id string) error
}
