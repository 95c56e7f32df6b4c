package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, location_id, location_kind, quantity, unit_cost, unit_price,
	min_stock_level, reorder_point, created_at, updated_at, updated_by`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var updatedBy *string
	err := row.Scan(
		&i.ID, &i.SKU, &i.Name, &i.LocationID, &i.LocationKind, &i.Quantity,
		&i.UnitCost, &i.UnitPrice, &i.MinStockLevel, &i.ReorderPoint,
		&i.CreatedAt, &i.UpdatedAt, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	if updatedBy != nil {
		i.UpdatedBy = *updatedBy
	}
	return &i, nil
}

// Create persiste un item nuevo. Devuelve ErrDuplicate si ya existe (sku, location_id).
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.LocationID, item.LocationKind, item.Quantity,
		item.UnitCost, item.UnitPrice, item.MinStockLevel, item.ReorderPoint,
		item.CreatedAt, item.UpdatedAt, nullable(item.UpdatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByIDForUpdate obtiene un item y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetByIDForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return item, nil
}

// GetBySKUAndLocation obtiene el item de un SKU en una ubicación.
func (r *ItemRepo) GetBySKUAndLocation(sku, locationID string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1 AND location_id = $2`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, sku, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return item, nil
}

// FindOrCreateForUpdate inserta el item o, si (sku, location_id) ya existe,
// devuelve la fila existente. El upsert sobre la constraint única es una sola
// sentencia atómica (sin check-then-insert) y deja la fila bloqueada en la
// transacción en curso, equivalente a un SELECT FOR UPDATE.
func (r *ItemRepo) FindOrCreateForUpdate(defaults *entity.Item) (*entity.Item, bool, error) {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (sku, location_id) DO UPDATE SET sku = EXCLUDED.sku
		RETURNING ` + itemColumns
	item, err := scanItem(r.q.QueryRow(context.Background(), query,
		defaults.ID, defaults.SKU, defaults.Name, defaults.LocationID, defaults.LocationKind, defaults.Quantity,
		defaults.UnitCost, defaults.UnitPrice, defaults.MinStockLevel, defaults.ReorderPoint,
		defaults.CreatedAt, defaults.UpdatedAt, nullable(defaults.UpdatedBy),
	))
	if err != nil {
		return nil, false, fmt.Errorf("find or create item: %w", err)
	}
	return item, item.ID == defaults.ID, nil
}

// Update persiste los campos mutables del item.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, quantity = $3, unit_cost = $4, unit_price = $5,
			min_stock_level = $6, reorder_point = $7, updated_at = $8, updated_by = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Quantity, item.UnitCost, item.UnitPrice,
		item.MinStockLevel, item.ReorderPoint, item.UpdatedAt, nullable(item.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByLocation lista los items de una ubicación con paginación.
func (r *ItemRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE location_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListBelowReorder lista los items con quantity <= reorder_point.
// locationID vacío consulta todas las ubicaciones.
func (r *ItemRepo) ListBelowReorder(locationID string) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE quantity <= reorder_point AND ($1 = '' OR location_id = $1)
		ORDER BY quantity - reorder_point`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Delete elimina un item. Con historial de movimientos la FK lo impide y se
// devuelve ErrConflict (el caso de uso ya verifica antes; esto es el cierre en BD).
func (r *ItemRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// nullable convierte cadena vacía en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
