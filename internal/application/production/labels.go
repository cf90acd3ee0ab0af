package production

import (
	"context"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// LabelUseCase genera la hoja de etiquetas imprimible de un bulto.
type LabelUseCase struct {
	bundles   repository.BundleRepository
	units     repository.UnitRepository
	generator LabelPDFGenerator
}

// NewLabelUseCase construye el caso de uso.
func NewLabelUseCase(bundles repository.BundleRepository, units repository.UnitRepository, generator LabelPDFGenerator) *LabelUseCase {
	return &LabelUseCase{bundles: bundles, units: units, generator: generator}
}

// BundleLabels PDF con el QR del bulto y uno por pieza. Requiere códigos emitidos.
func (uc *LabelUseCase) BundleLabels(ctx context.Context, bundleID int64) ([]byte, error) {
	b, err := uc.bundles.GetByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.Code == "" {
		return nil, domain.ErrConflict
	}
	labels, err := uc.units.LabelsByBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateBundleLabels(b, labels)
}
