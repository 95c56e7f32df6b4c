package audit_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// auditStore fakes en memoria para el motor de auditoría, con snapshot para
// emular el rollback de la transacción.
type auditStore struct {
	mu        sync.Mutex
	items     map[string]*entity.Item
	movements map[string]*entity.MovementEntry
	records   map[string]*entity.AuditRecord
	lines     []*entity.AuditLineItem
	activity  []*entity.ActivityLog
	locations map[string]*entity.Location
}

func newAuditStore() *auditStore {
	return &auditStore{
		items:     make(map[string]*entity.Item),
		movements: make(map[string]*entity.MovementEntry),
		records:   make(map[string]*entity.AuditRecord),
		locations: make(map[string]*entity.Location),
	}
}

func (s *auditStore) addItem(i entity.Item)         { s.items[i.ID] = &i }
func (s *auditStore) addLocation(l entity.Location) { s.locations[l.ID] = &l }

type auditTxRunner struct {
	store *auditStore
}

var _ audit.TxRunner = (*auditTxRunner)(nil)

func (r *auditTxRunner) RunAudit(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	audits repository.AuditRepository,
	activity repository.ActivityRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	itemsSnap := make(map[string]*entity.Item, len(r.store.items))
	for id, it := range r.store.items {
		cp := *it
		itemsSnap[id] = &cp
	}
	movementsLen := len(r.store.movements)
	recordsSnap := make(map[string]*entity.AuditRecord, len(r.store.records))
	for id, rec := range r.store.records {
		cp := *rec
		recordsSnap[id] = &cp
	}
	linesLen, activityLen := len(r.store.lines), len(r.store.activity)

	err := fn(&fakeItemRepo{store: r.store}, &fakeMovementRepo{store: r.store}, &fakeAuditRepo{store: r.store}, &fakeActivityRepo{store: r.store})
	if err != nil {
		r.store.items = itemsSnap
		r.store.records = recordsSnap
		r.store.lines = r.store.lines[:linesLen]
		r.store.activity = r.store.activity[:activityLen]
		if len(r.store.movements) != movementsLen {
			for id := range r.store.movements {
				delete(r.store.movements, id)
			}
		}
		return err
	}
	return nil
}

type fakeItemRepo struct{ store *auditStore }

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) Create(item *entity.Item) error { cp := *item; r.store.items[item.ID] = &cp; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	item, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}
func (r *fakeItemRepo) GetByIDForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }
func (r *fakeItemRepo) GetBySKUAndLocation(sku, locationID string) (*entity.Item, error) {
	for _, item := range r.store.items {
		if item.SKU == sku && item.LocationID == locationID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeItemRepo) FindOrCreateForUpdate(defaults *entity.Item) (*entity.Item, bool, error) {
	existing, _ := r.GetBySKUAndLocation(defaults.SKU, defaults.LocationID)
	if existing != nil {
		return existing, false, nil
	}
	cp := *defaults
	r.store.items[defaults.ID] = &cp
	out := cp
	return &out, true, nil
}
func (r *fakeItemRepo) Update(item *entity.Item) error {
	if _, ok := r.store.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}
func (r *fakeItemRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.Item, error) {
	var all []*entity.Item
	for _, item := range r.store.items {
		if item.LocationID == locationID {
			cp := *item
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
func (r *fakeItemRepo) ListBelowReorder(locationID string) ([]*entity.Item, error) { return nil, nil }
func (r *fakeItemRepo) Delete(id string) error                                     { delete(r.store.items, id); return nil }

type fakeMovementRepo struct{ store *auditStore }

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(entry *entity.MovementEntry) error {
	cp := *entry
	r.store.movements[entry.ID] = &cp
	return nil
}
func (r *fakeMovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	entry, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}
func (r *fakeMovementRepo) GetByIDForUpdate(id string) (*entity.MovementEntry, error) {
	return r.GetByID(id)
}
func (r *fakeMovementRepo) UpdateStatus(id, from, to string) error {
	entry, ok := r.store.movements[id]
	if !ok || entry.Status != from {
		return domain.ErrInvalidStateTransition
	}
	entry.Status = to
	return nil
}
func (r *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, entry := range r.store.movements {
		if filter.Kind != "" && entry.Kind != filter.Kind {
			continue
		}
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}
func (r *fakeMovementRepo) CountByItem(itemID string) (int, error) { return 0, nil }

type fakeAuditRepo struct{ store *auditStore }

var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func (r *fakeAuditRepo) CreateRecord(record *entity.AuditRecord) error {
	cp := *record
	r.store.records[record.ID] = &cp
	return nil
}
func (r *fakeAuditRepo) CreateLineItem(line *entity.AuditLineItem) error {
	cp := *line
	r.store.lines = append(r.store.lines, &cp)
	return nil
}
func (r *fakeAuditRepo) UpdateTotals(auditID string, itemsAudited, discrepanciesFound int) error {
	record, ok := r.store.records[auditID]
	if !ok {
		return domain.ErrNotFound
	}
	record.ItemsAudited = itemsAudited
	record.DiscrepanciesFound = discrepanciesFound
	return nil
}
func (r *fakeAuditRepo) GetRecord(id string) (*entity.AuditRecord, error) {
	record, ok := r.store.records[id]
	if !ok {
		return nil, nil
	}
	cp := *record
	return &cp, nil
}
func (r *fakeAuditRepo) ListRecords(locationID string, limit, offset int) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for _, record := range r.store.records {
		if locationID == "" || record.LocationID == locationID {
			cp := *record
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeAuditRepo) ListLineItems(auditID string) ([]*entity.AuditLineItem, error) {
	var out []*entity.AuditLineItem
	for _, line := range r.store.lines {
		if line.AuditID == auditID {
			cp := *line
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeActivityRepo struct{ store *auditStore }

var _ repository.ActivityRepository = (*fakeActivityRepo)(nil)

func (r *fakeActivityRepo) Create(log *entity.ActivityLog) error {
	cp := *log
	r.store.activity = append(r.store.activity, &cp)
	return nil
}
func (r *fakeActivityRepo) List(filter repository.ActivityFilter) ([]*entity.ActivityLog, error) {
	return append([]*entity.ActivityLog(nil), r.store.activity...), nil
}

type fakeLocationRepo struct{ store *auditStore }

var _ repository.LocationRepository = (*fakeLocationRepo)(nil)

func (r *fakeLocationRepo) Create(location *entity.Location) error {
	cp := *location
	r.store.locations[location.ID] = &cp
	return nil
}
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	location, ok := r.store.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *location
	return &cp, nil
}
func (r *fakeLocationRepo) List(limit, offset int) ([]*entity.Location, error) { return nil, nil }

// ───────────────────────────────────────────────────────────────────────────────

func newAuditFixture() (*auditStore, *audit.UseCase) {
	store := newAuditStore()
	store.addLocation(entity.Location{ID: "loc-1", Name: "Bodega Central", Kind: entity.LocationKindWarehouse})
	uc := audit.NewUseCase(
		&auditTxRunner{store: store},
		&fakeItemRepo{store: store},
		&fakeLocationRepo{store: store},
		&fakeAuditRepo{store: store},
	)
	return store, uc
}

func TestStartAudit_PrecargaStockVigente(t *testing.T) {
	store, uc := newAuditFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", Name: "Tornillo", LocationID: "loc-1", Quantity: 30})
	store.addItem(entity.Item{ID: "item-2", SKU: "SKU-2", Name: "Tuerca", LocationID: "loc-1", Quantity: 12})
	store.addItem(entity.Item{ID: "item-3", SKU: "SKU-3", Name: "Otro", LocationID: "loc-9", Quantity: 5})

	candidates, err := uc.StartAudit(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, candidates, 2, "solo items de la ubicación auditada")
	for _, cand := range candidates {
		assert.Equal(t, cand.ExpectedQuantity, cand.ActualQuantity, "actual precargado con el stock vigente")
	}
}

// Una ubicación con más items que una página no puede perder ninguno: el
// recorrido pagina hasta agotar el stock de la ubicación.
func TestStartAudit_UbicacionGrandeSinTruncar(t *testing.T) {
	store, uc := newAuditFixture()
	const total = 1203
	for i := 0; i < total; i++ {
		store.addItem(entity.Item{
			ID:         fmt.Sprintf("item-%06d", i),
			SKU:        fmt.Sprintf("SKU-%06d", i),
			LocationID: "loc-1",
			Quantity:   int64(i % 50),
		})
	}

	candidates, err := uc.StartAudit(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, candidates, total, "ningún item de la ubicación puede quedar fuera del conteo")

	seen := make(map[string]bool, total)
	for _, cand := range candidates {
		seen[cand.ItemID] = true
	}
	assert.Len(t, seen, total, "sin duplicados entre páginas")
}

func TestStartAudit_UbicacionInexistente(t *testing.T) {
	_, uc := newAuditFixture()
	_, err := uc.StartAudit(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommitAudit_RecalculaDiscrepanciaEnServidor(t *testing.T) {
	store, uc := newAuditFixture()
	// El stock vigente es 30; aunque el auditor hubiera visto 35 al iniciar,
	// la discrepancia se calcula contra 30.
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", LocationID: "loc-1", Quantity: 30})

	record, lines, err := uc.CommitAudit(context.Background(), audit.CommitInput{
		LocationID:  "loc-1",
		ConductedBy: "auditor-1",
		Lines:       []audit.LineInput{{ItemID: "item-1", ActualQuantity: 28, UpdateInventory: true}},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, int64(30), lines[0].ExpectedQuantity)
	assert.Equal(t, int64(-2), lines[0].Discrepancy)
	assert.True(t, lines[0].Applied)
	assert.Equal(t, 1, record.ItemsAudited)
	assert.Equal(t, 1, record.DiscrepanciesFound)

	// El item quedó en el conteo físico y el ajuste quedó en el ledger.
	item, _ := (&fakeItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(28), item.Quantity)

	adjustments, _ := (&fakeMovementRepo{store: store}).List(repository.MovementFilter{Kind: entity.MovementKindAdjustment})
	require.Len(t, adjustments, 1)
	assert.Equal(t, int64(-2), adjustments[0].Quantity, "el ajuste lleva la discrepancia firmada")
	assert.Equal(t, record.ID, adjustments[0].CounterpartyID, "la auditoría es la contraparte del ajuste")
}

func TestCommitAudit_SinUpdateInventoryNoAjusta(t *testing.T) {
	store, uc := newAuditFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", LocationID: "loc-1", Quantity: 30})

	record, lines, err := uc.CommitAudit(context.Background(), audit.CommitInput{
		LocationID:  "loc-1",
		ConductedBy: "auditor-1",
		Lines:       []audit.LineInput{{ItemID: "item-1", ActualQuantity: 25}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(-5), lines[0].Discrepancy)
	assert.False(t, lines[0].Applied)
	assert.Equal(t, 1, record.DiscrepanciesFound, "la discrepancia se registra aunque no se aplique")

	item, _ := (&fakeItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(30), item.Quantity)
	assert.Empty(t, store.movements)
}

func TestCommitAudit_SinDiscrepanciaNoCuenta(t *testing.T) {
	store, uc := newAuditFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", LocationID: "loc-1", Quantity: 30})

	record, lines, err := uc.CommitAudit(context.Background(), audit.CommitInput{
		LocationID:  "loc-1",
		ConductedBy: "auditor-1",
		Lines:       []audit.LineInput{{ItemID: "item-1", ActualQuantity: 30, UpdateInventory: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), lines[0].Discrepancy)
	assert.False(t, lines[0].Applied)
	assert.Equal(t, 0, record.DiscrepanciesFound)
	assert.Empty(t, store.movements, "discrepancia cero no genera asiento")
}

func TestCommitAudit_ItemInexistenteAbortaTodo(t *testing.T) {
	store, uc := newAuditFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", LocationID: "loc-1", Quantity: 30})

	_, _, err := uc.CommitAudit(context.Background(), audit.CommitInput{
		LocationID:  "loc-1",
		ConductedBy: "auditor-1",
		Lines: []audit.LineInput{
			{ItemID: "item-1", ActualQuantity: 28, UpdateInventory: true},
			{ItemID: "no-existe", ActualQuantity: 5},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Nada sobrevive: ni cabecera, ni líneas, ni el ajuste de la primera línea.
	assert.Empty(t, store.records)
	assert.Empty(t, store.lines)
	assert.Empty(t, store.movements)
	item, _ := (&fakeItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(30), item.Quantity)
}

func TestCommitAudit_Validaciones(t *testing.T) {
	_, uc := newAuditFixture()
	ctx := context.Background()

	_, _, err := uc.CommitAudit(ctx, audit.CommitInput{LocationID: "loc-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, _, err = uc.CommitAudit(ctx, audit.CommitInput{
		LocationID: "loc-1",
		Lines:      []audit.LineInput{{ItemID: "item-1", ActualQuantity: -1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "conteo negativo")
}
