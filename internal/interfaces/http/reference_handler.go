package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// ReferenceHandler catálogos de estilo: compradores, temporadas, tallas, colores, estilos y materiales.
type ReferenceHandler struct {
	uc  *production.ReferenceUseCase
	log *logger.Logger
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(uc *production.ReferenceUseCase, log *logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{uc: uc, log: log}
}

// CreateNamed handler de alta para un catálogo simple (kind = buyers, seasons, sizes, colors).
// @Summary      Crear elemento de catálogo
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NamedRequest  true  "Nombre"
// @Success      201   {object}  dto.NamedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/buyers [post]
// @Router       /api/seasons [post]
// @Router       /api/sizes [post]
// @Router       /api/colors [post]
func (h *ReferenceHandler) CreateNamed(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.NamedRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		out, err := h.uc.CreateNamed(c.UserContext(), kind, in)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// ListNamed handler de listado para un catálogo simple.
// @Summary      Listar catálogo
// @Tags         reference
// @Produce      json
// @Success      200  {array}  dto.NamedResponse
// @Router       /api/buyers [get]
// @Router       /api/seasons [get]
// @Router       /api/sizes [get]
// @Router       /api/colors [get]
func (h *ReferenceHandler) ListNamed(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.uc.ListNamed(c.UserContext(), kind)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// CreateStyle godoc
// @Summary      Crear estilo
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStyleRequest  true  "Estilo"
// @Success      201   {object}  dto.StyleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/styles [post]
func (h *ReferenceHandler) CreateStyle(c *fiber.Ctx) error {
	var in dto.CreateStyleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateStyle(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStyles godoc
// @Summary      Listar estilos
// @Tags         reference
// @Produce      json
// @Success      200  {array}  dto.StyleResponse
// @Router       /api/styles [get]
func (h *ReferenceHandler) ListStyles(c *fiber.Ctx) error {
	out, err := h.uc.ListStyles(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateMaterial godoc
// @Summary      Crear material
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Material"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *ReferenceHandler) CreateMaterial(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateMaterial(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMaterials godoc
// @Summary      Listar materiales
// @Tags         reference
// @Produce      json
// @Param        style_id  query  int  false  "Filtrar por estilo"
// @Success      200       {array}  dto.MaterialResponse
// @Router       /api/materials [get]
func (h *ReferenceHandler) ListMaterials(c *fiber.Ctx) error {
	styleID, ok := optionalID(c, "style_id")
	if !ok {
		return badID(c, "style_id")
	}
	out, err := h.uc.ListMaterials(c.UserContext(), styleID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
