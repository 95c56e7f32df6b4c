package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
)

// TransferHandler maneja traslados entre ubicaciones (protegido).
type TransferHandler struct {
	uc *ledger.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *ledger.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// transferResponse items afectados y asientos creados por el traslado.
type transferResponse struct {
	Entries          []dto.MovementResponse `json:"entries"`
	SourceItems      []dto.ItemResponse     `json:"source_items"`
	DestinationItems []dto.ItemResponse     `json:"destination_items"`
}

// Create godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Por cada línea debita el item origen y acredita el item destino
//
//	(creado si no existe en la ubicación destino), con un asiento
//	TRANSFER. Todo o nada.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "destination_location_id, items"
// @Success      201   {object}  transferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := dto.ParseDate(in.TransferDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: err.Error()})
	}

	input := ledger.TransferInput{
		DestinationLocationID: in.DestinationLocationID,
		ActorID:               GetUserID(c),
		Date:                  date,
		Notes:                 in.Notes,
	}
	for _, item := range in.Items {
		input.Lines = append(input.Lines, ledger.TransferLine{
			SourceItemID: item.SourceItemID,
			Quantity:     item.Quantity,
			NewPrice:     item.NewPrice,
		})
	}

	result, err := h.uc.Transfer(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transferResponse{
		Entries:          dto.ToMovementResponses(result.Entries),
		SourceItems:      dto.ToItemResponses(result.SourceItems),
		DestinationItems: dto.ToItemResponses(result.DestinationItems),
	})
}
