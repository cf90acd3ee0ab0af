package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable el orden importa: los errores del flujo de escaneo van antes que los genéricos.
var errorTable = []errorMapping{
	{domain.ErrScannerNotFound, fiber.StatusBadRequest, "SCANNER_NOT_FOUND"},
	{domain.ErrScannerUnassigned, fiber.StatusBadRequest, "SCANNER_UNASSIGNED"},
	{domain.ErrInvalidCode, fiber.StatusBadRequest, "INVALID_CODE"},
	{domain.ErrEmptyBundle, fiber.StatusBadRequest, "EMPTY_BUNDLE"},
	{domain.ErrMissingQualityStatus, fiber.StatusBadRequest, "MISSING_QUALITY_STATUS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// respondError traduce errores de dominio a ErrorResponse. Los no mapeados se registran
// y se responden como INTERNAL sin detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return fail(c, m.status, m.code, m.err.Error())
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
}

// ErrorHandler para fiber.Config: rutas inexistentes y errores que escapan de los handlers.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "INTERNAL"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusBadRequest:
				code = "INVALID_BODY"
			}
			return fail(c, fe.Code, code, fe.Message)
		}
		return respondError(c, log, err)
	}
}
