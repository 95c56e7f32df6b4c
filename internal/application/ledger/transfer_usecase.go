package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TransferUseCase orquesta traslados: débito en el item origen y crédito en el
// item destino (creado si no existe), con un asiento TRANSFER por línea.
// Requests con varias líneas son una sola transacción: todo o nada.
type TransferUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, locationRepo repository.LocationRepository) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, locationRepo: locationRepo}
}

// TransferLine línea de un traslado. NewPrice re-precia el item destino.
type TransferLine struct {
	SourceItemID string
	Quantity     int64
	NewPrice     *decimal.Decimal
}

// TransferInput entrada para Transfer.
type TransferInput struct {
	DestinationLocationID string
	ActorID               string
	Date                  time.Time
	Notes                 string
	Lines                 []TransferLine
}

// TransferResult items afectados y asientos creados por un traslado.
type TransferResult struct {
	Entries          []*entity.MovementEntry
	SourceItems      []*entity.Item
	DestinationItems []*entity.Item
}

// Transfer mueve cantidad del item origen al item destino keyed por
// (sku, ubicación destino). Por cada línea: bloquea el origen, verifica stock,
// busca o crea el destino (upsert atómico, sembrado en 0 y con el precio nuevo
// o el del origen), resta, suma y registra un asiento TRANSFER con el item
// destino como contraparte. Si cualquier paso falla no queda ningún cambio
// de cantidad observable.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if len(input.Lines) == 0 || input.DestinationLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.SourceItemID == "" {
			return nil, domain.ErrInvalidInput
		}
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if line.NewPrice != nil && line.NewPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	destination, err := uc.locationRepo.GetByID(input.DestinationLocationID)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	result := &TransferResult{}
	err = uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		*result = TransferResult{}
		for _, line := range input.Lines {
			if err := uc.doTransfer(items, movements, activity, destination, input, line, result, date, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// doTransfer procesa una línea de traslado dentro de la transacción.
func (uc *TransferUseCase) doTransfer(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	activity repository.ActivityRepository,
	destination *entity.Location,
	input TransferInput,
	line TransferLine,
	result *TransferResult,
	date, now time.Time,
) error {
	source, err := items.GetByIDForUpdate(line.SourceItemID)
	if err != nil {
		return err
	}
	if source == nil {
		return domain.ErrNotFound
	}
	if source.LocationID == destination.ID {
		return domain.ErrInvalidInput
	}
	if source.Quantity < line.Quantity {
		return &domain.InsufficientStockError{
			ItemID:    source.ID,
			ItemName:  source.Name,
			Available: source.Quantity,
			Requested: line.Quantity,
		}
	}

	price := source.UnitPrice
	if line.NewPrice != nil {
		price = *line.NewPrice
	}
	dest, _, err := items.FindOrCreateForUpdate(&entity.Item{
		ID:            uuid.New().String(),
		SKU:           source.SKU,
		Name:          source.Name,
		LocationID:    destination.ID,
		LocationKind:  destination.Kind,
		Quantity:      0,
		UnitCost:      source.UnitCost,
		UnitPrice:     price,
		MinStockLevel: source.MinStockLevel,
		ReorderPoint:  source.ReorderPoint,
		CreatedAt:     now,
		UpdatedAt:     now,
		UpdatedBy:     input.ActorID,
	})
	if err != nil {
		return err
	}

	if err := applyDelta(items, source, -line.Quantity, input.ActorID, now); err != nil {
		return err
	}
	if line.NewPrice != nil {
		dest.UnitPrice = *line.NewPrice
	}
	if err := applyDelta(items, dest, line.Quantity, input.ActorID, now); err != nil {
		return err
	}

	entry := &entity.MovementEntry{
		ID:             uuid.New().String(),
		Kind:           entity.MovementKindTransfer,
		ItemID:         source.ID,
		Quantity:       line.Quantity,
		CounterpartyID: dest.ID,
		Status:         entity.MovementStatusCompleted,
		Notes:          input.Notes,
		Date:           date,
		CreatedAt:      now,
		ActorID:        input.ActorID,
	}
	if err := movements.Create(entry); err != nil {
		return err
	}

	detail := fmt.Sprintf("traslado de %d uds de %s hacia %s", line.Quantity, source.SKU, destination.Name)
	if err := logActivity(activity, input.ActorID, entity.ActionTransfer, entity.EntityTypeItem, source.ID, detail, now); err != nil {
		return err
	}

	result.Entries = append(result.Entries, entry)
	result.SourceItems = append(result.SourceItems, source)
	result.DestinationItems = append(result.DestinationItems, dest)
	return nil
}
