package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase motor de auditoría física: StartAudit precarga candidatos con el
// stock vigente y CommitAudit persiste los conteos recalculando cada
// discrepancia en servidor, aplicándola opcionalmente al item como asiento
// ADJUSTMENT con la auditoría como procedencia.
type UseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	auditRepo    repository.AuditRepository
}

// NewUseCase construye el motor de auditoría.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, locationRepo repository.LocationRepository, auditRepo repository.AuditRepository) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, locationRepo: locationRepo, auditRepo: auditRepo}
}

// startAuditPageSize tamaño de página al recorrer los items de la ubicación.
const startAuditPageSize = 500

// LineCandidate línea precargada para el conteo: expected = actual = cantidad
// vigente del item al iniciar (el auditor sobreescribe actual con lo contado).
type LineCandidate struct {
	ItemID           string
	SKU              string
	Name             string
	ExpectedQuantity int64
	ActualQuantity   int64
}

// StartAudit devuelve un candidato por cada item de la ubicación.
func (uc *UseCase) StartAudit(ctx context.Context, locationID string) ([]LineCandidate, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	// Una auditoría recorre la ubicación completa: se pagina hasta agotar
	// los items para que ninguno quede fuera del conteo.
	var candidates []LineCandidate
	for offset := 0; ; offset += startAuditPageSize {
		items, err := uc.itemRepo.ListByLocation(locationID, startAuditPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			candidates = append(candidates, LineCandidate{
				ItemID:           item.ID,
				SKU:              item.SKU,
				Name:             item.Name,
				ExpectedQuantity: item.Quantity,
				ActualQuantity:   item.Quantity,
			})
		}
		if len(items) < startAuditPageSize {
			return candidates, nil
		}
	}
}

// LineInput conteo físico de un item. El expected del cliente no se acepta.
type LineInput struct {
	ItemID          string
	ActualQuantity  int64
	Notes           string
	UpdateInventory bool
}

// CommitInput entrada para CommitAudit.
type CommitInput struct {
	LocationID  string
	AuditDate   time.Time
	ConductedBy string
	Notes       string
	Lines       []LineInput
}

// CommitAudit persiste la auditoría en una sola transacción:
//  1. Crea la cabecera.
//  2. Por línea: bloquea el item, recalcula discrepancy = actual - cantidad
//     vigente (nunca el expected enviado por el cliente) y crea la línea.
//  3. Si discrepancy != 0 y la línea pide UpdateInventory, ajusta el item y
//     registra un asiento ADJUSTMENT (cantidad firmada, contraparte = auditoría).
//  4. Actualiza items_audited y discrepancies_found.
//
// Un item inexistente a mitad del recorrido aborta el commit completo.
func (uc *UseCase) CommitAudit(ctx context.Context, input CommitInput) (*entity.AuditRecord, []*entity.AuditLineItem, error) {
	if input.LocationID == "" || len(input.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ItemID == "" {
			return nil, nil, domain.ErrInvalidInput
		}
		if line.ActualQuantity < 0 {
			return nil, nil, domain.ErrInvalidQuantity
		}
	}
	location, err := uc.locationRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, nil, err
	}
	if location == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	auditDate := input.AuditDate
	if auditDate.IsZero() {
		auditDate = now
	}

	record := &entity.AuditRecord{
		ID:          uuid.New().String(),
		LocationID:  input.LocationID,
		AuditDate:   auditDate,
		ConductedBy: input.ConductedBy,
		Notes:       input.Notes,
		CreatedAt:   now,
	}
	var lines []*entity.AuditLineItem

	err = uc.txRunner.RunAudit(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		audits repository.AuditRepository,
		activity repository.ActivityRepository,
	) error {
		lines = lines[:0]
		if err := audits.CreateRecord(record); err != nil {
			return err
		}

		discrepancies := 0
		for _, line := range input.Lines {
			item, err := items.GetByIDForUpdate(line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			expected := item.Quantity
			discrepancy := line.ActualQuantity - expected

			auditLine := &entity.AuditLineItem{
				ID:               uuid.New().String(),
				AuditID:          record.ID,
				ItemID:           item.ID,
				ExpectedQuantity: expected,
				ActualQuantity:   line.ActualQuantity,
				Discrepancy:      discrepancy,
				Notes:            line.Notes,
			}
			if discrepancy != 0 {
				discrepancies++
				if line.UpdateInventory {
					if err := uc.applyAdjustment(items, movements, activity, item, record, discrepancy, input.ConductedBy, auditDate, now); err != nil {
						return err
					}
					auditLine.Applied = true
				}
			}
			if err := audits.CreateLineItem(auditLine); err != nil {
				return err
			}
			lines = append(lines, auditLine)
		}

		record.ItemsAudited = len(input.Lines)
		record.DiscrepanciesFound = discrepancies
		if err := audits.UpdateTotals(record.ID, record.ItemsAudited, record.DiscrepanciesFound); err != nil {
			return err
		}

		detail := fmt.Sprintf("auditoría en %s: %d items, %d discrepancias", location.Name, record.ItemsAudited, discrepancies)
		return activity.Create(&entity.ActivityLog{
			ID:         uuid.New().String(),
			ActorID:    input.ConductedBy,
			Action:     entity.ActionCommitAudit,
			EntityType: entity.EntityTypeAudit,
			EntityID:   record.ID,
			Detail:     detail,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return record, lines, nil
}

// GetAudit obtiene una auditoría con sus líneas.
func (uc *UseCase) GetAudit(id string) (*entity.AuditRecord, []*entity.AuditLineItem, error) {
	record, err := uc.auditRepo.GetRecord(id)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.auditRepo.ListLineItems(id)
	if err != nil {
		return nil, nil, err
	}
	return record, lines, nil
}

// ListAudits lista auditorías, opcionalmente filtradas por ubicación.
func (uc *UseCase) ListAudits(locationID string, limit, offset int) ([]*entity.AuditRecord, error) {
	return uc.auditRepo.ListRecords(locationID, limit, offset)
}

// applyAdjustment aplica la discrepancia al item y deja el asiento ADJUSTMENT
// con la auditoría como contraparte. discrepancy = actual - expected y actual
// es >= 0, así que el resultado nunca es negativo.
func (uc *UseCase) applyAdjustment(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	activity repository.ActivityRepository,
	item *entity.Item,
	record *entity.AuditRecord,
	discrepancy int64,
	actorID string,
	auditDate, now time.Time,
) error {
	if item.Quantity+discrepancy < 0 {
		return &domain.InsufficientStockError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Available: item.Quantity,
			Requested: -discrepancy,
		}
	}
	item.Quantity += discrepancy
	item.UpdatedAt = now
	item.UpdatedBy = actorID
	if err := items.Update(item); err != nil {
		return err
	}

	entry := &entity.MovementEntry{
		ID:             uuid.New().String(),
		Kind:           entity.MovementKindAdjustment,
		ItemID:         item.ID,
		Quantity:       discrepancy, // firmada
		CounterpartyID: record.ID,
		Status:         entity.MovementStatusCompleted,
		Notes:          "ajuste por auditoría física",
		Date:           auditDate,
		CreatedAt:      now,
		ActorID:        actorID,
	}
	if err := movements.Create(entry); err != nil {
		return err
	}

	detail := fmt.Sprintf("ajuste por auditoría de %+d uds de %s", discrepancy, item.SKU)
	return activity.Create(&entity.ActivityLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     entity.ActionAuditAdjustment,
		EntityType: entity.EntityTypeItem,
		EntityID:   item.ID,
		Detail:     detail,
		CreatedAt:  now,
	})
}
