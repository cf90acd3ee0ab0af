package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// SetupHandler líneas, escáneres y catálogo de defectos.
type SetupHandler struct {
	uc  *production.SetupUseCase
	log *logger.Logger
}

// NewSetupHandler construye el handler.
func NewSetupHandler(uc *production.SetupUseCase, log *logger.Logger) *SetupHandler {
	return &SetupHandler{uc: uc, log: log}
}

// CreateLine godoc
// @Summary      Crear línea de producción
// @Tags         lines
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionLineRequest  true  "Línea"
// @Success      201   {object}  dto.ProductionLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lines [post]
func (h *SetupHandler) CreateLine(c *fiber.Ctx) error {
	var in dto.CreateProductionLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateLine(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLines godoc
// @Summary      Listar líneas
// @Tags         lines
// @Produce      json
// @Success      200  {array}  dto.ProductionLineResponse
// @Router       /api/lines [get]
func (h *SetupHandler) ListLines(c *fiber.Ctx) error {
	out, err := h.uc.ListLines(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateScanner godoc
// @Summary      Registrar escáner
// @Description  El nombre es único. Sin production_line_id el escáner existe pero sus lecturas se rechazan.
// @Tags         scanners
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateScannerRequest  true  "Escáner"
// @Success      201   {object}  dto.ScannerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/scanners [post]
func (h *SetupHandler) CreateScanner(c *fiber.Ctx) error {
	var in dto.CreateScannerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateScanner(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetScanner godoc
// @Summary      Obtener escáner
// @Tags         scanners
// @Produce      json
// @Param        id   path  int  true  "ID del escáner"
// @Success      200  {object}  dto.ScannerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scanners/{id} [get]
func (h *SetupHandler) GetScanner(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.uc.GetScanner(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListScanners godoc
// @Summary      Listar escáneres
// @Tags         scanners
// @Produce      json
// @Param        line_id  query  int  false  "Filtrar por línea"
// @Success      200      {array}  dto.ScannerResponse
// @Router       /api/scanners [get]
func (h *SetupHandler) ListScanners(c *fiber.Ctx) error {
	lineID, ok := optionalID(c, "line_id")
	if !ok {
		return badID(c, "line_id")
	}
	out, err := h.uc.ListScanners(c.UserContext(), lineID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateDefect godoc
// @Summary      Crear defecto
// @Tags         defects
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDefectRequest  true  "Defecto"
// @Success      201   {object}  dto.DefectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/defects [post]
func (h *SetupHandler) CreateDefect(c *fiber.Ctx) error {
	var in dto.CreateDefectRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateDefect(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDefects godoc
// @Summary      Listar defectos
// @Tags         defects
// @Produce      json
// @Success      200  {array}  dto.DefectResponse
// @Router       /api/defects [get]
func (h *SetupHandler) ListDefects(c *fiber.Ctx) error {
	out, err := h.uc.ListDefects(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
