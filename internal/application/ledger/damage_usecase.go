package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// DamageUseCase gestiona bajas por daño en dos pasos: el reporte crea un
// asiento DAMAGE en PENDING sin tocar cantidades; la aprobación (restringida a
// los roles configurados) descuenta el stock y lo pasa a APPROVED; el rechazo
// lo pasa a REJECTED sin efecto sobre cantidades. Ambos estados son terminales.
type DamageUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	approvers []string
}

// NewDamageUseCase construye el caso de uso. approvers son los roles
// autorizados a aprobar/rechazar (configuración, no hardcode).
func NewDamageUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, approvers []string) *DamageUseCase {
	return &DamageUseCase{txRunner: txRunner, itemRepo: itemRepo, approvers: approvers}
}

// ReportDamageInput entrada para ReportDamage.
type ReportDamageInput struct {
	ItemID   string
	Quantity int64
	Reason   string
	ActorID  string
	Date     time.Time
}

// ReportDamage crea el asiento DAMAGE en PENDING. La cantidad del item no se
// toca hasta la aprobación.
func (uc *DamageUseCase) ReportDamage(ctx context.Context, input ReportDamageInput) (*entity.MovementEntry, error) {
	if input.ItemID == "" || input.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	entry := &entity.MovementEntry{
		ID:        uuid.New().String(),
		Kind:      entity.MovementKindDamage,
		ItemID:    item.ID,
		Quantity:  input.Quantity,
		Status:    entity.MovementStatusPending,
		Notes:     input.Reason,
		Date:      date,
		CreatedAt: now,
		ActorID:   input.ActorID,
	}
	err = uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		if err := movements.Create(entry); err != nil {
			return err
		}
		detail := fmt.Sprintf("reporte de daño de %d uds de %s: %s", input.Quantity, item.SKU, input.Reason)
		return logActivity(activity, input.ActorID, entity.ActionReportDamage, entity.EntityTypeMovement, entry.ID, detail, now)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApproveDamage aprueba un reporte PENDING: descuenta la cantidad del item
// (con guard de stock) y transiciona a APPROVED. Re-aprobar un asiento ya
// aprobado o rechazado devuelve ErrInvalidStateTransition.
func (uc *DamageUseCase) ApproveDamage(ctx context.Context, entryID, actorID, actorRole string) (*entity.MovementEntry, error) {
	if !uc.roleAllowed(actorRole) {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var approved *entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		entry, err := movements.GetByIDForUpdate(entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.Kind != entity.MovementKindDamage {
			return domain.ErrInvalidInput
		}
		if entry.Status != entity.MovementStatusPending {
			return domain.ErrInvalidStateTransition
		}

		item, err := items.GetByIDForUpdate(entry.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := applyDelta(items, item, -entry.Quantity, actorID, now); err != nil {
			return err
		}
		if err := movements.UpdateStatus(entry.ID, entity.MovementStatusPending, entity.MovementStatusApproved); err != nil {
			return err
		}
		entry.Status = entity.MovementStatusApproved

		detail := fmt.Sprintf("baja por daño aprobada: %d uds de %s", entry.Quantity, item.SKU)
		if err := logActivity(activity, actorID, entity.ActionApproveDamage, entity.EntityTypeItem, item.ID, detail, now); err != nil {
			return err
		}
		approved = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectDamage rechaza un reporte PENDING sin efecto sobre cantidades.
func (uc *DamageUseCase) RejectDamage(ctx context.Context, entryID, actorID, actorRole string) (*entity.MovementEntry, error) {
	if !uc.roleAllowed(actorRole) {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var rejected *entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		activity repository.ActivityRepository,
	) error {
		entry, err := movements.GetByIDForUpdate(entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.Kind != entity.MovementKindDamage {
			return domain.ErrInvalidInput
		}
		if entry.Status != entity.MovementStatusPending {
			return domain.ErrInvalidStateTransition
		}
		if err := movements.UpdateStatus(entry.ID, entity.MovementStatusPending, entity.MovementStatusRejected); err != nil {
			return err
		}
		entry.Status = entity.MovementStatusRejected

		detail := fmt.Sprintf("reporte de daño rechazado (%d uds)", entry.Quantity)
		if err := logActivity(activity, actorID, entity.ActionRejectDamage, entity.EntityTypeMovement, entry.ID, detail, now); err != nil {
			return err
		}
		rejected = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

func (uc *DamageUseCase) roleAllowed(role string) bool {
	for _, allowed := range uc.approvers {
		if strings.EqualFold(role, allowed) {
			return true
		}
	}
	return false
}
