package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// BatchHandler lotes de producción y su conciliación.
type BatchHandler struct {
	refs  *production.ReferenceUseCase
	recon *tracking.ReconciliationUseCase
	log   *logger.Logger
}

// NewBatchHandler construye el handler.
func NewBatchHandler(refs *production.ReferenceUseCase, recon *tracking.ReconciliationUseCase, log *logger.Logger) *BatchHandler {
	return &BatchHandler{refs: refs, recon: recon, log: log}
}

// Create godoc
// @Summary      Crear lote
// @Description  Si batch_number viene vacío se genera uno.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.refs.CreateBatch(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar lotes
// @Tags         batches
// @Produce      json
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	out, err := h.refs.ListBatches(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de conciliación del lote
// @Description  Entradas, salidas, faltantes y eficiencia por línea. Las inconsistencias se reportan, no se corrigen.
// @Tags         batches
// @Produce      json
// @Param        id   path  int  true  "ID del lote"
// @Success      200  {object}  dto.BatchReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/report [get]
func (h *BatchHandler) Report(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.recon.BatchReport(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// LineUnits godoc
// @Summary      Detalle por pieza de una línea
// @Tags         batches
// @Produce      json
// @Param        id      path  int  true  "ID del lote"
// @Param        lineId  path  int  true  "ID de la línea"
// @Success      200     {array}  dto.UnitLineStatusDTO
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/lines/{lineId}/units [get]
func (h *BatchHandler) LineUnits(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	lineID, ok := idParam(c, "lineId")
	if !ok {
		return badID(c, "lineId")
	}
	out, err := h.recon.LineUnits(c.UserContext(), id, lineID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
