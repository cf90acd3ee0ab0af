package tracking

import (
	"context"
	"fmt"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// IdentityRegistry emite los códigos QR de piezas y bultos y resuelve códigos escaneados.
// Se invoca de forma explícita (creación de bultos, re-emisión); no hay hooks de guardado.
type IdentityRegistry struct {
	bundles repository.BundleRepository
	units   repository.UnitRepository
	encoder ImageEncoder
	store   ImageStore
	metrics ScanMetrics
	log     *logger.Logger
}

// NewIdentityRegistry construye el registro. encoder y store pueden ser nil (sin imagen).
func NewIdentityRegistry(
	bundles repository.BundleRepository,
	units repository.UnitRepository,
	encoder ImageEncoder,
	store ImageStore,
	metrics ScanMetrics,
	log *logger.Logger,
) *IdentityRegistry {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &IdentityRegistry{
		bundles: bundles,
		units:   units,
		encoder: encoder,
		store:   store,
		metrics: metrics,
		log:     log.Component("identity"),
	}
}

// IssueUnitCode asigna el código de la pieza una sola vez. Si ya tiene código no hace nada.
func (r *IdentityRegistry) IssueUnitCode(ctx context.Context, unitID int64) (string, error) {
	u, err := r.units.GetByID(ctx, unitID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.ErrNotFound
	}
	if u.Code != "" {
		return u.Code, nil
	}

	code := tracking.IssueCode(tracking.NamespaceUnit, u.ID)
	label, err := r.units.Label(ctx, u.ID)
	if err != nil {
		return "", err
	}
	ref, err := r.render(ctx, UnitImageKey(label, code), code)
	if err != nil {
		return "", err
	}
	ok, err := r.units.AssignCode(ctx, u.ID, code, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		// Otro proceso lo emitió primero; el código asignado es inmutable.
		u, err = r.units.GetByID(ctx, unitID)
		if err != nil {
			return "", fmt.Errorf("releer pieza %d: %w", unitID, err)
		}
		if u == nil {
			return "", fmt.Errorf("releer pieza %d: %w", unitID, domain.ErrNotFound)
		}
		return u.Code, nil
	}
	r.metrics.CodeIssued(tracking.NamespaceUnit.String())
	r.log.Debug().Int64("unit_id", u.ID).Str("code", code).Msg("código de pieza emitido")
	return code, nil
}

// IssueBundleCode asigna el código del bulto una sola vez.
func (r *IdentityRegistry) IssueBundleCode(ctx context.Context, bundleID int64) (string, error) {
	b, err := r.bundles.GetByID(ctx, bundleID)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", domain.ErrNotFound
	}
	if b.Code != "" {
		return b.Code, nil
	}

	code := tracking.IssueCode(tracking.NamespaceBundle, b.ID)
	ref, err := r.render(ctx, BundleImageKey(code), code)
	if err != nil {
		return "", err
	}
	ok, err := r.bundles.AssignCode(ctx, b.ID, code, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		b, err = r.bundles.GetByID(ctx, bundleID)
		if err != nil {
			return "", fmt.Errorf("releer bulto %d: %w", bundleID, err)
		}
		if b == nil {
			return "", fmt.Errorf("releer bulto %d: %w", bundleID, domain.ErrNotFound)
		}
		return b.Code, nil
	}
	r.metrics.CodeIssued(tracking.NamespaceBundle.String())
	r.log.Debug().Int64("bundle_id", b.ID).Str("code", code).Msg("código de bulto emitido")
	return code, nil
}

// IssueBundleCodes emite el código del bulto y los de todas sus piezas (idempotente).
func (r *IdentityRegistry) IssueBundleCodes(ctx context.Context, bundleID int64) error {
	if _, err := r.IssueBundleCode(ctx, bundleID); err != nil {
		return err
	}
	members, err := r.units.ListByBundle(ctx, bundleID)
	if err != nil {
		return err
	}
	for _, u := range members {
		if u.Code != "" {
			continue
		}
		if _, err := r.IssueUnitCode(ctx, u.ID); err != nil {
			return fmt.Errorf("emitir código pieza %d: %w", u.ID, err)
		}
	}
	return nil
}

func (r *IdentityRegistry) render(ctx context.Context, key, code string) (string, error) {
	if r.encoder == nil || r.store == nil {
		return "", nil
	}
	img, err := r.encoder.Encode(code)
	if err != nil {
		return "", fmt.Errorf("codificar QR %s: %w", code, err)
	}
	ref, err := r.store.Store(ctx, key, img, "image/png")
	if err != nil {
		return "", fmt.Errorf("guardar QR %s: %w", code, err)
	}
	return ref, nil
}

// Resolution resultado de resolver un código escaneado.
type Resolution struct {
	Namespace tracking.Namespace
	Bundle    *entity.Bundle // solo para códigos de bulto
	Units     []*entity.TrackableUnit
}

// Resolve traduce un código a las piezas que representa: la pieza, o todas las del bulto.
func (r *IdentityRegistry) Resolve(ctx context.Context, code string) (*Resolution, error) {
	ns, err := tracking.ParseCode(code)
	if err != nil {
		return nil, err
	}
	res := &Resolution{Namespace: ns}
	switch ns {
	case tracking.NamespaceBundle:
		b, err := r.bundles.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, domain.ErrInvalidCode
		}
		members, err := r.units.ListByBundle(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, domain.ErrEmptyBundle
		}
		res.Bundle = b
		res.Units = members
	default:
		u, err := r.units.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.ErrInvalidCode
		}
		res.Units = []*entity.TrackableUnit{u}
	}
	return res, nil
}
