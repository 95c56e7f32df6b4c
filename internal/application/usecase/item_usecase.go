package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemUseCase operaciones de catálogo sobre items: alta explícita, consulta,
// borrado con guard de historial y lista de reposición. La cantidad solo la
// muta el motor de movimientos, nunca este caso de uso. El alta y el borrado
// corren dentro del TxRunner: la mutación y su entrada de bitácora aplican
// juntas o ninguna.
type ItemUseCase struct {
	txRunner     ledger.TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner ledger.TxRunner, itemRepo repository.ItemRepository, locationRepo repository.LocationRepository) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, locationRepo: locationRepo}
}

// Create da de alta un item con quantity 0 (el stock entra solo por el ledger).
// Valida reorder_point <= min_stock_level y montos no negativos.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actorID string) (*entity.Item, error) {
	if in.SKU == "" || in.Name == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStockLevel < 0 || in.ReorderPoint < 0 || in.ReorderPoint > in.MinStockLevel {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		LocationID:    location.ID,
		LocationKind:  location.Kind,
		Quantity:      0,
		UnitCost:      in.UnitCost,
		UnitPrice:     in.UnitPrice,
		MinStockLevel: in.MinStockLevel,
		ReorderPoint:  in.ReorderPoint,
		CreatedAt:     now,
		UpdatedAt:     now,
		UpdatedBy:     actorID,
	}
	err = uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		if err := items.Create(item); err != nil {
			return err
		}
		return activity.Create(&entity.ActivityLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.ActionCreateItem,
			EntityType: entity.EntityTypeItem,
			EntityID:   item.ID,
			Detail:     fmt.Sprintf("alta de item %s en %s", item.SKU, location.Name),
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID obtiene un item.
func (uc *ItemUseCase) GetByID(id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListByLocation lista los items de una ubicación.
func (uc *ItemUseCase) ListByLocation(locationID string, limit, offset int) ([]*entity.Item, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.itemRepo.ListByLocation(locationID, limit, offset)
}

// Delete elimina un item solo si ningún movimiento del ledger lo referencia;
// con historial devuelve ErrConflict (mismo guard que el borrado de categorías).
func (uc *ItemUseCase) Delete(ctx context.Context, id, actorID string) error {
	return uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		item, err := items.GetByID(id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		count, err := movements.CountByItem(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}
		if err := items.Delete(id); err != nil {
			return err
		}
		return activity.Create(&entity.ActivityLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.ActionDeleteItem,
			EntityType: entity.EntityTypeItem,
			EntityID:   id,
			Detail:     fmt.Sprintf("baja de item %s", item.SKU),
			CreatedAt:  time.Now(),
		})
	})
}

// ReplenishmentList sugiere reposición para los items en o por debajo de su
// punto de reorden: cantidad sugerida = min_stock_level - stock actual.
func (uc *ItemUseCase) ReplenishmentList(locationID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.itemRepo.ListBelowReorder(locationID)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, item := range items {
		qty := item.MinStockLevel - item.Quantity
		if qty <= 0 {
			continue
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ID,
			SKU:                item.SKU,
			Name:               item.Name,
			LocationID:         item.LocationID,
			CurrentStock:       item.Quantity,
			ReorderPoint:       item.ReorderPoint,
			MinStockLevel:      item.MinStockLevel,
			SuggestedOrderQty:  qty,
			UnitCost:           item.UnitCost,
			EstimatedOrderCost: item.UnitCost.Mul(decimal.NewFromInt(qty)),
		})
	}
	return suggestions, nil
}
