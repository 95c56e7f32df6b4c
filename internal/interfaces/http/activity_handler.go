package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ActivityHandler consulta de la bitácora de actividad (protegido).
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List godoc
// @Summary      Consultar la bitácora de actividad
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        actor_id     query  string  false  "Filtrar por actor"
// @Param        action       query  string  false  "Filtrar por acción"
// @Param        entity_type  query  string  false  "item | movement | audit"
// @Param        entity_id    query  string  false  "Filtrar por entidad"
// @Param        from         query  string  false  "Fecha desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Fecha hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.ActivityResponse
// @Router       /api/activity [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
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

	filter := repository.ActivityFilter{
		ActorID:    c.Query("actor_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}

	logs, err := h.uc.List(filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToActivityResponses(logs))
}
