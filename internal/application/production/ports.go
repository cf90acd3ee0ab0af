package production

import (
	"context"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// TxRunner crea un bulto y sus piezas en una sola transacción.
type TxRunner interface {
	RunBundle(ctx context.Context, fn func(
		bundles repository.BundleRepository,
		units repository.UnitRepository,
	) error) error
}

// LabelPDFGenerator genera la hoja de etiquetas QR de un bulto.
type LabelPDFGenerator interface {
	GenerateBundleLabels(bundle *entity.Bundle, labels []entity.UnitLabel) ([]byte, error)
}
