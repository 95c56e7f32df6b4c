package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
)

// DamageHandler maneja reportes y aprobaciones de bajas por daño (protegido).
type DamageHandler struct {
	uc *ledger.DamageUseCase
}

// NewDamageHandler construye el handler.
func NewDamageHandler(uc *ledger.DamageUseCase) *DamageHandler {
	return &DamageHandler{uc: uc}
}

// Report godoc
// @Summary      Reportar mercancía dañada
// @Description  Crea el asiento DAMAGE en PENDING. El stock no se descuenta
//
//	hasta la aprobación.
//
// @Tags         damage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DamageRequest  true  "item_id, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/damage [post]
func (h *DamageHandler) Report(c *fiber.Ctx) error {
	var in dto.DamageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}

	entry, err := h.uc.ReportDamage(c.Context(), ledger.ReportDamageInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Reason:   in.Reason,
		ActorID:  GetUserID(c),
		Date:     date,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(entry))
}

// Approve godoc
// @Summary      Aprobar una baja por daño
// @Description  Descuenta el stock y transiciona el asiento a APPROVED.
//
//	Solo los roles aprobadores configurados.
//
// @Tags         damage
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del asiento DAMAGE"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/damage/{id}/approve [put]
func (h *DamageHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	entry, err := h.uc.ApproveDamage(c.Context(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(entry))
}

// Reject godoc
// @Summary      Rechazar una baja por daño
// @Description  Transiciona el asiento a REJECTED sin tocar el stock.
// @Tags         damage
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del asiento DAMAGE"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/damage/{id}/reject [put]
func (h *DamageHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	entry, err := h.uc.RejectDamage(c.Context(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(entry))
}
