package production

import (
	"context"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// MaxBundleQuantity límite de piezas por bulto.
const MaxBundleQuantity = 10000

// BundleUseCase alta, consulta y archivo de bultos.
type BundleUseCase struct {
	txRunner TxRunner
	bundles  repository.BundleRepository
	units    repository.UnitRepository
	refs     repository.ReferenceRepository
	registry *tracking.IdentityRegistry
	log      *logger.Logger
}

// NewBundleUseCase construye el caso de uso.
func NewBundleUseCase(
	txRunner TxRunner,
	bundles repository.BundleRepository,
	units repository.UnitRepository,
	refs repository.ReferenceRepository,
	registry *tracking.IdentityRegistry,
	log *logger.Logger,
) *BundleUseCase {
	return &BundleUseCase{
		txRunner: txRunner,
		bundles:  bundles,
		units:    units,
		refs:     refs,
		registry: registry,
		log:      log.Component("bundles"),
	}
}

// CreateBundle crea el bulto y sus Quantity piezas en una transacción y luego emite
// todos los códigos. Si la emisión falla el bulto queda creado y puede reintentarse
// con ReissueCodes.
func (uc *BundleUseCase) CreateBundle(ctx context.Context, in dto.CreateBundleRequest) (*dto.BundleResponse, error) {
	if in.Quantity < 1 || in.Quantity > MaxBundleQuantity {
		return nil, domain.ErrInvalidInput
	}
	batch, err := uc.refs.GetBatch(ctx, in.ProductionBatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	material, err := uc.refs.GetMaterial(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	b := &entity.Bundle{
		ProductionBatchID: batch.ID,
		MaterialID:        material.ID,
		SizeID:            in.SizeID,
		ColorID:           in.ColorID,
		Quantity:          in.Quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = uc.txRunner.RunBundle(ctx, func(bundles repository.BundleRepository, units repository.UnitRepository) error {
		if err := bundles.Create(ctx, b); err != nil {
			return err
		}
		for i := 0; i < b.Quantity; i++ {
			u := &entity.TrackableUnit{BundleID: b.ID, CreatedAt: now, UpdatedAt: now}
			if err := units.Create(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.registry.IssueBundleCodes(ctx, b.ID); err != nil {
		uc.log.Error().Err(err).Int64("bundle_id", b.ID).Msg("no se pudieron emitir los códigos del bulto")
		return nil, err
	}
	uc.log.Info().Int64("bundle_id", b.ID).Int("quantity", b.Quantity).Msg("bulto creado")
	return uc.GetBundle(ctx, b.ID)
}

// GetBundle devuelve el bulto con sus piezas y su ubicación.
func (uc *BundleUseCase) GetBundle(ctx context.Context, id int64) (*dto.BundleResponse, error) {
	b, err := uc.bundles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	members, err := uc.units.ListByBundle(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.BundleResponse{
		ID:                b.ID,
		ProductionBatchID: b.ProductionBatchID,
		MaterialID:        b.MaterialID,
		SizeID:            b.SizeID,
		ColorID:           b.ColorID,
		Quantity:          b.Quantity,
		Code:              b.Code,
		ImageRef:          b.ImageRef,
		Units:             make([]dto.UnitResponse, 0, len(members)),
	}
	for _, u := range members {
		out.Units = append(out.Units, *tracking.UnitToResponse(u))
	}
	return out, nil
}

// ReissueCodes emite los códigos faltantes del bulto y sus piezas. Los existentes no cambian.
func (uc *BundleUseCase) ReissueCodes(ctx context.Context, id int64) (*dto.BundleResponse, error) {
	if err := uc.registry.IssueBundleCodes(ctx, id); err != nil {
		return nil, err
	}
	return uc.GetBundle(ctx, id)
}

// ArchiveBundle archiva el bulto y sus piezas. Los eventos de escaneo se conservan.
func (uc *BundleUseCase) ArchiveBundle(ctx context.Context, id int64) error {
	b, err := uc.bundles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.RunBundle(ctx, func(bundles repository.BundleRepository, units repository.UnitRepository) error {
		if err := units.SoftDeleteByBundle(ctx, id); err != nil {
			return err
		}
		return bundles.SoftDelete(ctx, id)
	})
}
