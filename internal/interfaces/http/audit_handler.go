package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

// AuditHandler maneja auditorías físicas de inventario (protegido).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// auditCommitResponse cabecera persistida más líneas de conteo.
type auditCommitResponse struct {
	Audit dto.AuditResponse       `json:"audit"`
	Lines []dto.AuditLineResponse `json:"lines"`
}

// Start godoc
// @Summary      Iniciar auditoría en una ubicación
// @Description  Devuelve una línea por item con expected = actual = stock
//
//	vigente; el auditor sobreescribe actual con lo contado.
//
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "Ubicación a auditar"
// @Success      200  {array}   dto.AuditCandidateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit/start [get]
func (h *AuditHandler) Start(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	candidates, err := h.uc.StartAudit(c.Context(), locationID)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.AuditCandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, dto.AuditCandidateResponse{
			ItemID:           cand.ItemID,
			SKU:              cand.SKU,
			Name:             cand.Name,
			ExpectedQuantity: cand.ExpectedQuantity,
			ActualQuantity:   cand.ActualQuantity,
		})
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar auditoría
// @Description  Persiste los conteos recalculando cada discrepancia contra el
//
//	stock vigente en servidor. Las líneas con update_inventory
//	ajustan el item con un asiento ADJUSTMENT. Todo o nada.
//
// @Tags         audit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AuditCommitRequest  true  "location_id, items contados"
// @Success      201   {object}  auditCommitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/audit [post]
func (h *AuditHandler) Commit(c *fiber.Ctx) error {
	var in dto.AuditCommitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.AuditDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}

	input := audit.CommitInput{
		LocationID:  in.LocationID,
		AuditDate:   date,
		ConductedBy: GetUserID(c),
		Notes:       in.Notes,
	}
	for _, item := range in.Items {
		input.Lines = append(input.Lines, audit.LineInput{
			ItemID:          item.ItemID,
			ActualQuantity:  item.ActualQuantity,
			Notes:           item.Notes,
			UpdateInventory: item.UpdateInventory,
		})
	}

	record, lines, err := h.uc.CommitAudit(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auditCommitResponse{
		Audit: dto.ToAuditResponse(record),
		Lines: dto.ToAuditLineResponses(lines),
	})
}

// List godoc
// @Summary      Listar auditorías
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.AuditResponse
// @Router       /api/inventory/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	records, err := h.uc.ListAudits(c.Query("location_id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.AuditResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ToAuditResponse(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener auditoría con sus líneas
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  auditCommitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit/{id} [get]
func (h *AuditHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	record, lines, err := h.uc.GetAudit(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(auditCommitResponse{
		Audit: dto.ToAuditResponse(record),
		Lines: dto.ToAuditLineResponses(lines),
	})
}
