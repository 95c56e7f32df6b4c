package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// MovementHandler maneja recepciones, despachos y consulta del ledger (protegido).
type MovementHandler struct {
	uc *ledger.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// RegisterInward godoc
// @Summary      Registrar recepción de mercancía
// @Description  Suma stock por cada línea y deja un asiento INWARD. El item se
//
//	crea si el SKU no existe en la ubicación. Todo o nada.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InwardRequest  true  "location_id, supplier_id, items"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inward [post]
func (h *MovementHandler) RegisterInward(c *fiber.Ctx) error {
	var in dto.InwardRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.ReceivedDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}

	input := ledger.InwardInput{
		LocationID: in.LocationID,
		SupplierID: in.SupplierID,
		ActorID:    GetUserID(c),
		Date:       date,
		Notes:      in.Notes,
	}
	for _, item := range in.Items {
		input.Lines = append(input.Lines, ledger.InwardLine{
			SKU:           item.SKU,
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitCost:      item.UnitCost,
			UnitPrice:     item.UnitPrice,
			MinStockLevel: item.MinStockLevel,
			ReorderPoint:  item.ReorderPoint,
		})
	}

	entries, err := h.uc.RegisterInward(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponses(entries))
}

// RegisterOutward godoc
// @Summary      Registrar despacho
// @Description  Resta stock por cada línea con verificación de disponible y deja
//
//	un asiento OUTWARD. Una línea sin stock aborta el request completo.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OutwardRequest  true  "destination, items"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/outward [post]
func (h *MovementHandler) RegisterOutward(c *fiber.Ctx) error {
	var in dto.OutwardRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.TransferDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}

	input := ledger.OutwardInput{
		LocationID:  in.LocationID,
		Destination: in.Destination,
		ActorID:     GetUserID(c),
		Date:        date,
		Notes:       in.Notes,
	}
	for _, item := range in.Items {
		input.Lines = append(input.Lines, ledger.OutwardLine{ItemID: item.ItemID, Quantity: item.Quantity})
	}

	entries, err := h.uc.RegisterOutward(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponses(entries))
}

// List godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por item (incluye el lado destino de los TRANSFER)"
// @Param        kind     query  string  false  "INWARD | OUTWARD | DAMAGE | TRANSFER | ADJUSTMENT"
// @Param        status   query  string  false  "PENDING | APPROVED | REJECTED | COMPLETED"
// @Param        from     query  string  false  "Fecha desde (YYYY-MM-DD)"
// @Param        to       query  string  false  "Fecha hasta (YYYY-MM-DD)"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()

	from, err := dto.ParseDate(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}
	to, err := dto.ParseDate(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}

	filter := repository.MovementFilter{
		ItemID: c.Query("item_id"),
		Kind:   c.Query("kind"),
		Status: c.Query("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}

	entries, err := h.uc.ListMovements(filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(entries))
}

// GetByID godoc
// @Summary      Obtener un movimiento del ledger
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	entry, err := h.uc.GetMovement(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(entry))
}
