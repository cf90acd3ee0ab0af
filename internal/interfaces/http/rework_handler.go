package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// ReworkHandler asignaciones de retrabajo generadas por control de calidad.
type ReworkHandler struct {
	uc  *tracking.QualityUseCase
	log *logger.Logger
}

// NewReworkHandler construye el handler.
func NewReworkHandler(uc *tracking.QualityUseCase, log *logger.Logger) *ReworkHandler {
	return &ReworkHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar retrabajos
// @Tags         rework
// @Produce      json
// @Param        line_id  query  int   false  "Filtrar por línea"
// @Param        pending  query  bool  false  "Solo pendientes"
// @Success      200      {array}  dto.ReworkResponse
// @Router       /api/rework [get]
func (h *ReworkHandler) List(c *fiber.Ctx) error {
	lineID, ok := optionalID(c, "line_id")
	if !ok {
		return badID(c, "line_id")
	}
	list, err := h.uc.ListRework(c.UserContext(), lineID, c.QueryBool("pending", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.ReworkResponse, 0, len(list))
	for _, ra := range list {
		out = append(out, reworkToResponse(ra))
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Marcar retrabajo terminado
// @Tags         rework
// @Produce      json
// @Param        id   path  string  true  "ID (UUID) de la asignación"
// @Success      200  {object}  dto.ReworkResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rework/{id}/complete [patch]
func (h *ReworkHandler) Complete(c *fiber.Ctx) error {
	ra, err := h.uc.CompleteRework(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(reworkToResponse(ra))
}

func reworkToResponse(ra *entity.ReworkAssignment) dto.ReworkResponse {
	return dto.ReworkResponse{
		ID:               ra.ID,
		QualityCheckID:   ra.QualityCheckID,
		ProductionLineID: ra.ProductionLineID,
		Notes:            ra.Notes,
		Completed:        ra.Completed,
		CompletedAt:      ra.CompletedAt,
		CreatedAt:        ra.CreatedAt,
	}
}
