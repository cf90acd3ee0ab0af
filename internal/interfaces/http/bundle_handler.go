package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// BundleHandler bultos: alta con piezas, consulta, archivo, reemisión de códigos y etiquetas.
type BundleHandler struct {
	uc     *production.BundleUseCase
	labels *production.LabelUseCase
	log    *logger.Logger
}

// NewBundleHandler construye el handler.
func NewBundleHandler(uc *production.BundleUseCase, labels *production.LabelUseCase, log *logger.Logger) *BundleHandler {
	return &BundleHandler{uc: uc, labels: labels, log: log}
}

// Create godoc
// @Summary      Crear bulto
// @Description  Crea el bulto y quantity piezas, y emite los códigos QR de todos.
// @Tags         bundles
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBundleRequest  true  "Bulto"
// @Success      201   {object}  dto.BundleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/bundles [post]
func (h *BundleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBundleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateBundle(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener bulto
// @Tags         bundles
// @Produce      json
// @Param        id   path  int  true  "ID del bulto"
// @Success      200  {object}  dto.BundleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bundles/{id} [get]
func (h *BundleHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.uc.GetBundle(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar bulto
// @Description  Baja lógica del bulto y sus piezas. El historial de escaneos se conserva.
// @Tags         bundles
// @Param        id   path  int  true  "ID del bulto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bundles/{id} [delete]
func (h *BundleHandler) Archive(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	if err := h.uc.ArchiveBundle(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReissueCodes godoc
// @Summary      Emitir códigos faltantes
// @Description  Idempotente: los códigos ya emitidos no cambian.
// @Tags         bundles
// @Produce      json
// @Param        id   path  int  true  "ID del bulto"
// @Success      200  {object}  dto.BundleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bundles/{id}/codes [post]
func (h *BundleHandler) ReissueCodes(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.uc.ReissueCodes(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Labels godoc
// @Summary      Hoja de etiquetas PDF
// @Tags         bundles
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del bulto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bundles/{id}/labels [get]
func (h *BundleHandler) Labels(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badID(c, "id")
	}
	doc, err := h.labels.BundleLabels(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="bulto_%d.pdf"`, id))
	return c.Send(doc)
}
