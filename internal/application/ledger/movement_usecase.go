package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	invdomain "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// MovementUseCase registra recepciones (INWARD) y despachos (OUTWARD) de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Un request con varias líneas es una sola transacción: todo o nada.
type MovementUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.MovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, locationRepo: locationRepo, supplierRepo: supplierRepo, movementRepo: movementRepo}
}

// InwardLine línea de una recepción. El item destino se busca o crea por
// (SKU, ubicación); Name y los niveles de stock solo aplican al crearlo.
type InwardLine struct {
	SKU           string
	Name          string
	Quantity      int64
	UnitCost      decimal.Decimal
	UnitPrice     decimal.Decimal
	MinStockLevel int64
	ReorderPoint  int64
}

// InwardInput entrada para RegisterInward.
type InwardInput struct {
	LocationID string
	SupplierID string
	ActorID    string
	Date       time.Time
	Notes      string
	Lines      []InwardLine
}

// RegisterInward valida, y en una transacción por cada línea: busca o crea el
// item destino (upsert atómico sobre (sku, location_id)), recalcula el costo
// promedio ponderado, suma la cantidad y registra el asiento INWARD COMPLETED
// más una entrada de bitácora por item afectado.
func (uc *MovementUseCase) RegisterInward(ctx context.Context, input InwardInput) ([]*entity.MovementEntry, error) {
	if len(input.Lines) == 0 || input.LocationID == "" || input.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.SKU == "" {
			return nil, domain.ErrInvalidInput
		}
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if line.UnitCost.IsNegative() || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if line.ReorderPoint > line.MinStockLevel {
			return nil, domain.ErrInvalidInput
		}
	}

	location, err := uc.locationRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	var entries []*entity.MovementEntry
	err = uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		entries = entries[:0]
		for _, line := range input.Lines {
			entry, err := uc.doInward(items, movements, activity, location, input, line, date, now)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListMovements consulta el ledger con filtros opcionales.
func (uc *MovementUseCase) ListMovements(filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	return uc.movementRepo.List(filter)
}

// GetMovement obtiene un movimiento del ledger.
func (uc *MovementUseCase) GetMovement(id string) (*entity.MovementEntry, error) {
	entry, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// doInward procesa una línea de recepción dentro de la transacción.
func (uc *MovementUseCase) doInward(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	activity repository.ActivityRepository,
	location *entity.Location,
	input InwardInput,
	line InwardLine,
	date, now time.Time,
) (*entity.MovementEntry, error) {
	name := line.Name
	if name == "" {
		name = line.SKU
	}
	item, _, err := items.FindOrCreateForUpdate(&entity.Item{
		ID:            uuid.New().String(),
		SKU:           line.SKU,
		Name:          name,
		LocationID:    location.ID,
		LocationKind:  location.Kind,
		Quantity:      0,
		UnitCost:      line.UnitCost,
		UnitPrice:     line.UnitPrice,
		MinStockLevel: line.MinStockLevel,
		ReorderPoint:  line.ReorderPoint,
		CreatedAt:     now,
		UpdatedAt:     now,
		UpdatedBy:     input.ActorID,
	})
	if err != nil {
		return nil, err
	}

	// Costo promedio ponderado con la entrada recibida.
	item.UnitCost = invdomain.CostCalculator(item.Quantity, item.UnitCost, line.Quantity, line.UnitCost)
	if err := applyDelta(items, item, line.Quantity, input.ActorID, now); err != nil {
		return nil, err
	}

	entry := &entity.MovementEntry{
		ID:             uuid.New().String(),
		Kind:           entity.MovementKindInward,
		ItemID:         item.ID,
		Quantity:       line.Quantity,
		CounterpartyID: input.SupplierID,
		Status:         entity.MovementStatusCompleted,
		Notes:          input.Notes,
		Date:           date,
		CreatedAt:      now,
		ActorID:        input.ActorID,
	}
	if err := movements.Create(entry); err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("recepción de %d uds de %s en %s", line.Quantity, item.SKU, location.Name)
	if err := logActivity(activity, input.ActorID, entity.ActionRegisterInward, entity.EntityTypeItem, item.ID, detail, now); err != nil {
		return nil, err
	}
	return entry, nil
}

// OutwardLine línea de un despacho.
type OutwardLine struct {
	ItemID   string
	Quantity int64
}

// OutwardInput entrada para RegisterOutward.
type OutwardInput struct {
	LocationID  string
	Destination string
	ActorID     string
	Date        time.Time
	Notes       string
	Lines       []OutwardLine
}

// RegisterOutward valida, y en una transacción por cada línea: bloquea el item,
// verifica stock disponible >= solicitado (InsufficientStock con disponible y
// solicitado si no alcanza), resta la cantidad y registra el asiento OUTWARD.
// Cualquier línea insuficiente aborta el request completo sin aplicar nada.
func (uc *MovementUseCase) RegisterOutward(ctx context.Context, input OutwardInput) ([]*entity.MovementEntry, error) {
	if len(input.Lines) == 0 || input.Destination == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ItemID == "" {
			return nil, domain.ErrInvalidInput
		}
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	var entries []*entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		entries = entries[:0]
		for _, line := range input.Lines {
			item, err := items.GetByIDForUpdate(line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if input.LocationID != "" && item.LocationID != input.LocationID {
				return domain.ErrNotFound
			}
			if item.Quantity < line.Quantity {
				return &domain.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Available: item.Quantity,
					Requested: line.Quantity,
				}
			}
			if err := applyDelta(items, item, -line.Quantity, input.ActorID, now); err != nil {
				return err
			}

			entry := &entity.MovementEntry{
				ID:             uuid.New().String(),
				Kind:           entity.MovementKindOutward,
				ItemID:         item.ID,
				Quantity:       line.Quantity,
				CounterpartyID: input.Destination,
				Status:         entity.MovementStatusCompleted,
				Notes:          input.Notes,
				Date:           date,
				CreatedAt:      now,
				ActorID:        input.ActorID,
			}
			if err := movements.Create(entry); err != nil {
				return err
			}

			detail := fmt.Sprintf("despacho de %d uds de %s hacia %s", line.Quantity, item.SKU, input.Destination)
			if err := logActivity(activity, input.ActorID, entity.ActionRegisterOutward, entity.EntityTypeItem, item.ID, detail, now); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
