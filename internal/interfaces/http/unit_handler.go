package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// UnitHandler consulta de piezas: ubicación, flujo e historial de escaneos.
type UnitHandler struct {
	uc  *tracking.UnitQueryUseCase
	log *logger.Logger
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *tracking.UnitQueryUseCase, log *logger.Logger) *UnitHandler {
	return &UnitHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Obtener pieza
// @Tags         units
// @Produce      json
// @Param        id   path  int  true  "ID de la pieza"
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.uc.GetUnit(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Buscar pieza por código QR
// @Tags         units
// @Produce      json
// @Param        code  path  string  true  "Código de 8 dígitos"
// @Success      200   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/units/by-code/{code} [get]
func (h *UnitHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
