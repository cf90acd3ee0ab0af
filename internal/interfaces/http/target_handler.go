package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// TargetHandler metas diarias por línea y estilo.
type TargetHandler struct {
	uc  *production.TargetUseCase
	log *logger.Logger
}

// NewTargetHandler construye el handler.
func NewTargetHandler(uc *production.TargetUseCase, log *logger.Logger) *TargetHandler {
	return &TargetHandler{uc: uc, log: log}
}

// Upsert godoc
// @Summary      Fijar meta diaria
// @Tags         targets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertTargetRequest  true  "Meta"
// @Success      200   {object}  dto.TargetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/targets [put]
func (h *TargetHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertTargetRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Upsert(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar metas
// @Tags         targets
// @Produce      json
// @Param        line_id  query  int     false  "Filtrar por línea"
// @Param        date     query  string  false  "Fecha YYYY-MM-DD"
// @Success      200      {array}  dto.TargetResponse
// @Router       /api/targets [get]
func (h *TargetHandler) List(c *fiber.Ctx) error {
	lineID, ok := optionalID(c, "line_id")
	if !ok {
		return badID(c, "line_id")
	}
	out, err := h.uc.List(c.UserContext(), lineID, c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
