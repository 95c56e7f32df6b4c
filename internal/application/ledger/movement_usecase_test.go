package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func newMovementFixture() (*memStore, *ledger.MovementUseCase) {
	store := newMemStore()
	store.addLocation(entity.Location{ID: "loc-1", Name: "Bodega Central", Kind: entity.LocationKindWarehouse})
	store.addLocation(entity.Location{ID: "loc-2", Name: "Punto de Venta", Kind: entity.LocationKindInventory})
	store.addSupplier(entity.Supplier{ID: "sup-1", Name: "Proveedor Uno"})
	uc := ledger.NewMovementUseCase(
		&memTxRunner{store: store},
		&memLocationRepo{store: store},
		&memSupplierRepo{store: store},
		&memMovementRepo{store: store},
	)
	return store, uc
}

func TestRegisterInward_CreaItemYPromediaCosto(t *testing.T) {
	store, uc := newMovementFixture()

	entries, err := uc.RegisterInward(context.Background(), ledger.InwardInput{
		LocationID: "loc-1",
		SupplierID: "sup-1",
		ActorID:    "user-1",
		Lines: []ledger.InwardLine{
			{SKU: "SKU-1", Name: "Tornillo", Quantity: 10, UnitCost: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(150)},
		},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementKindInward, entries[0].Kind)
	assert.Equal(t, entity.MovementStatusCompleted, entries[0].Status)
	assert.Equal(t, "sup-1", entries[0].CounterpartyID)

	item, err := (&memItemRepo{store: store}).GetBySKUAndLocation("SKU-1", "loc-1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(10), item.Quantity)
	assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(100)))

	// Segunda recepción a otro costo: el item existente promedia ponderado.
	_, err = uc.RegisterInward(context.Background(), ledger.InwardInput{
		LocationID: "loc-1",
		SupplierID: "sup-1",
		ActorID:    "user-1",
		Lines: []ledger.InwardLine{
			{SKU: "SKU-1", Quantity: 10, UnitCost: decimal.NewFromInt(200), UnitPrice: decimal.NewFromInt(150)},
		},
	})
	require.NoError(t, err)

	item, _ = (&memItemRepo{store: store}).GetBySKUAndLocation("SKU-1", "loc-1")
	assert.Equal(t, int64(20), item.Quantity)
	assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(150)), "costo promedio: (10*100 + 10*200) / 20 = 150, obtuve %s", item.UnitCost)

	// Una entrada de bitácora por cada recepción.
	logs, _ := (&memActivityRepo{store: store}).List(repository.ActivityFilter{Action: entity.ActionRegisterInward})
	assert.Len(t, logs, 2)
}

func TestRegisterInward_Validaciones(t *testing.T) {
	_, uc := newMovementFixture()
	ctx := context.Background()

	_, err := uc.RegisterInward(ctx, ledger.InwardInput{LocationID: "loc-1", SupplierID: "sup-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.RegisterInward(ctx, ledger.InwardInput{
		LocationID: "loc-1", SupplierID: "sup-1",
		Lines: []ledger.InwardLine{{SKU: "SKU-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad cero")

	_, err = uc.RegisterInward(ctx, ledger.InwardInput{
		LocationID: "no-existe", SupplierID: "sup-1",
		Lines: []ledger.InwardLine{{SKU: "SKU-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "ubicación inexistente")

	_, err = uc.RegisterInward(ctx, ledger.InwardInput{
		LocationID: "loc-1", SupplierID: "no-existe",
		Lines: []ledger.InwardLine{{SKU: "SKU-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor inexistente")
}

func TestRegisterOutward_DescuentaStock(t *testing.T) {
	store, uc := newMovementFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", Name: "Tornillo", LocationID: "loc-1", Quantity: 50})

	entries, err := uc.RegisterOutward(context.Background(), ledger.OutwardInput{
		Destination: "cliente-mostrador",
		ActorID:     "user-1",
		Lines:       []ledger.OutwardLine{{ItemID: "item-1", Quantity: 30}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementKindOutward, entries[0].Kind)
	assert.Equal(t, "cliente-mostrador", entries[0].CounterpartyID)

	item, _ := (&memItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(20), item.Quantity)
}

func TestRegisterOutward_StockInsuficiente(t *testing.T) {
	store, uc := newMovementFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", Name: "Tornillo", LocationID: "loc-1", Quantity: 5})

	_, err := uc.RegisterOutward(context.Background(), ledger.OutwardInput{
		Destination: "cliente",
		Lines:       []ledger.OutwardLine{{ItemID: "item-1", Quantity: 8}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(5), insufficient.Available)
	assert.Equal(t, int64(8), insufficient.Requested)

	// Sin cambios: la cantidad se mantiene y no queda asiento ni bitácora.
	item, _ := (&memItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(5), item.Quantity)
	assert.Empty(t, store.movements)
	assert.Empty(t, store.activity)
}

func TestRegisterOutward_TodoONada(t *testing.T) {
	store, uc := newMovementFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", LocationID: "loc-1", Quantity: 50})
	store.addItem(entity.Item{ID: "item-2", SKU: "SKU-2", LocationID: "loc-1", Quantity: 3})

	_, err := uc.RegisterOutward(context.Background(), ledger.OutwardInput{
		Destination: "cliente",
		Lines: []ledger.OutwardLine{
			{ItemID: "item-1", Quantity: 10}, // alcanza
			{ItemID: "item-2", Quantity: 5},  // no alcanza
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La primera línea tampoco quedó aplicada.
	item1, _ := (&memItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(50), item1.Quantity)
	assert.Empty(t, store.movements)
}

func TestRegisterOutward_ItemInexistente(t *testing.T) {
	_, uc := newMovementFixture()
	_, err := uc.RegisterOutward(context.Background(), ledger.OutwardInput{
		Destination: "cliente",
		Lines:       []ledger.OutwardLine{{ItemID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos despachos concurrentes por el stock completo: exactamente uno gana y el
// otro recibe stock insuficiente. Nunca queda cantidad negativa ni doble asiento.
func TestRegisterOutward_CarreraConcurrente(t *testing.T) {
	store, uc := newMovementFixture()
	store.addItem(entity.Item{ID: "item-1", SKU: "SKU-1", LocationID: "loc-1", Quantity: 10})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.RegisterOutward(context.Background(), ledger.OutwardInput{
				Destination: "cliente",
				Lines:       []ledger.OutwardLine{{ItemID: "item-1", Quantity: 10}},
			})
		}(i)
	}
	wg.Wait()

	okCount, insufficientCount := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficientCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un despacho debe ganar")
	assert.Equal(t, 1, insufficientCount, "el otro debe recibir stock insuficiente")

	item, _ := (&memItemRepo{store: store}).GetByID("item-1")
	assert.Equal(t, int64(0), item.Quantity)
	assert.Len(t, store.movements, 1)
}
