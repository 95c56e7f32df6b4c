package ledger_test

import (
	"context"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// memStore almacén en memoria compartido por los fakes. El mutex del TxRunner
// serializa las transacciones igual que lo hace el bloqueo de fila en Postgres,
// y el snapshot al inicio permite deshacer en caso de error (rollback).
type memStore struct {
	mu        sync.Mutex
	items     map[string]*entity.Item
	movements map[string]*entity.MovementEntry
	activity  []*entity.ActivityLog
	locations map[string]*entity.Location
	suppliers map[string]*entity.Supplier
}

func newMemStore() *memStore {
	return &memStore{
		items:     make(map[string]*entity.Item),
		movements: make(map[string]*entity.MovementEntry),
		locations: make(map[string]*entity.Location),
		suppliers: make(map[string]*entity.Supplier),
	}
}

func (s *memStore) addLocation(l entity.Location) { s.locations[l.ID] = &l }
func (s *memStore) addSupplier(p entity.Supplier) { s.suppliers[p.ID] = &p }
func (s *memStore) addItem(i entity.Item)         { s.items[i.ID] = &i }

func (s *memStore) snapshot() (map[string]*entity.Item, map[string]*entity.MovementEntry, int) {
	items := make(map[string]*entity.Item, len(s.items))
	for id, it := range s.items {
		cp := *it
		items[id] = &cp
	}
	movements := make(map[string]*entity.MovementEntry, len(s.movements))
	for id, m := range s.movements {
		cp := *m
		movements[id] = &cp
	}
	return items, movements, len(s.activity)
}

// memTxRunner implementa ledger.TxRunner sobre el memStore.
type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	activity repository.ActivityRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	itemsSnap, movementsSnap, activityLen := r.store.snapshot()
	err := fn(&memItemRepo{store: r.store}, &memMovementRepo{store: r.store}, &memActivityRepo{store: r.store})
	if err != nil {
		r.store.items = itemsSnap
		r.store.movements = movementsSnap
		r.store.activity = r.store.activity[:activityLen]
		return err
	}
	return nil
}

var _ ledger.TxRunner = (*memTxRunner)(nil)

// ───────────────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	store *memStore
}

var _ repository.ItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) Create(item *entity.Item) error {
	for _, existing := range r.store.items {
		if existing.SKU == item.SKU && existing.LocationID == item.LocationID {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	item, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memItemRepo) GetByIDForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) GetBySKUAndLocation(sku, locationID string) (*entity.Item, error) {
	for _, item := range r.store.items {
		if item.SKU == sku && item.LocationID == locationID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) FindOrCreateForUpdate(defaults *entity.Item) (*entity.Item, bool, error) {
	existing, err := r.GetBySKUAndLocation(defaults.SKU, defaults.LocationID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	cp := *defaults
	r.store.items[defaults.ID] = &cp
	out := cp
	return &out, true, nil
}

func (r *memItemRepo) Update(item *entity.Item) error {
	if _, ok := r.store.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.store.items {
		if item.LocationID == locationID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memItemRepo) ListBelowReorder(locationID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.store.items {
		if item.Quantity <= item.ReorderPoint && (locationID == "" || item.LocationID == locationID) {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memItemRepo) Delete(id string) error {
	if _, ok := r.store.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.items, id)
	return nil
}

// ───────────────────────────────────────────────────────────────────────────────

type memMovementRepo struct {
	store *memStore
}

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(entry *entity.MovementEntry) error {
	if _, ok := r.store.movements[entry.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *entry
	r.store.movements[entry.ID] = &cp
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	entry, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (r *memMovementRepo) GetByIDForUpdate(id string) (*entity.MovementEntry, error) {
	return r.GetByID(id)
}

func (r *memMovementRepo) UpdateStatus(id, from, to string) error {
	entry, ok := r.store.movements[id]
	if !ok || entry.Status != from {
		return domain.ErrInvalidStateTransition
	}
	entry.Status = to
	return nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, entry := range r.store.movements {
		if filter.ItemID != "" && entry.ItemID != filter.ItemID && entry.CounterpartyID != filter.ItemID {
			continue
		}
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMovementRepo) CountByItem(itemID string) (int, error) {
	count := 0
	for _, entry := range r.store.movements {
		if entry.ItemID == itemID || entry.CounterpartyID == itemID {
			count++
		}
	}
	return count, nil
}

// ───────────────────────────────────────────────────────────────────────────────

type memActivityRepo struct {
	store *memStore
}

var _ repository.ActivityRepository = (*memActivityRepo)(nil)

func (r *memActivityRepo) Create(log *entity.ActivityLog) error {
	cp := *log
	r.store.activity = append(r.store.activity, &cp)
	return nil
}

func (r *memActivityRepo) List(filter repository.ActivityFilter) ([]*entity.ActivityLog, error) {
	var out []*entity.ActivityLog
	for _, log := range r.store.activity {
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		if filter.EntityID != "" && log.EntityID != filter.EntityID {
			continue
		}
		cp := *log
		out = append(out, &cp)
	}
	return out, nil
}

// ───────────────────────────────────────────────────────────────────────────────

type memLocationRepo struct {
	store *memStore
}

var _ repository.LocationRepository = (*memLocationRepo)(nil)

func (r *memLocationRepo) Create(location *entity.Location) error {
	cp := *location
	r.store.locations[location.ID] = &cp
	return nil
}

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	location, ok := r.store.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *location
	return &cp, nil
}

func (r *memLocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.store.locations {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

type memSupplierRepo struct {
	store *memStore
}

var _ repository.SupplierRepository = (*memSupplierRepo)(nil)

func (r *memSupplierRepo) Create(supplier *entity.Supplier) error {
	cp := *supplier
	r.store.suppliers[supplier.ID] = &cp
	return nil
}

func (r *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	supplier, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *supplier
	return &cp, nil
}

func (r *memSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.store.suppliers {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}
