package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// ScanHandler recibe los escaneos de los lectores de planta.
type ScanHandler struct {
	uc  *tracking.ScanIngestUseCase
	log *logger.Logger
}

// NewScanHandler construye el handler.
func NewScanHandler(uc *tracking.ScanIngestUseCase, log *logger.Logger) *ScanHandler {
	return &ScanHandler{uc: uc, log: log}
}

// Scan godoc
// @Summary      Registrar escaneo
// @Description  Registra la lectura de un código de pieza o de bulto. Un escaneo repetido del mismo escáner responde 200 con status already_processed.
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "Lectura"
// @Success      200   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/scan [post]
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.uc.Ingest(c.UserContext(), tracking.ScanInput{
		ScannerName:   in.ScannerName,
		Code:          in.QRData,
		QualityStatus: in.QualityStatus,
		DefectIDs:     in.DefectIDs,
		Notes:         in.Notes,
		ReworkNotes:   in.ReworkNotes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ScanResponse{
		Message:   res.Message,
		Status:    res.Status,
		Processed: res.Processed,
		Skipped:   res.Skipped,
	})
}
