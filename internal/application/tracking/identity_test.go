package tracking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	domaintracking "github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

func newBareRegistry(p *plant) *tracking.IdentityRegistry {
	return tracking.NewIdentityRegistry(p.bundles, p.units, nil, nil, nil, logger.Nop())
}

func TestIdentity_EmiteCodigosYRutasDeImagen(t *testing.T) {
	p := newPlant(t)
	b, units := p.bundle(t, 2)

	assert.Equal(t, domaintracking.IssueCode(domaintracking.NamespaceBundle, b.ID), b.Code)
	assert.Equal(t, "/media/qr_codes/bundles/"+b.Code+".png", b.ImageRef)
	for _, u := range units {
		assert.Equal(t, domaintracking.IssueCode(domaintracking.NamespaceUnit, u.ID), u.Code)
	}
	assert.Contains(t, p.images.keys, "qr_codes/Nordica_Outdoor/Invierno_2026/Parka_Artica/"+units[0].Code+".png")
	assert.Equal(t, 1, p.metrics.issued["bundle"])
	assert.Equal(t, 2, p.metrics.issued["unit"])
}

func TestIdentity_ReemisionNoCambiaCodigo(t *testing.T) {
	p := newPlant(t)
	b, units := p.bundle(t, 1)

	require.NoError(t, p.registry.IssueBundleCodes(p.ctx, b.ID))
	code, err := p.registry.IssueUnitCode(p.ctx, units[0].ID)
	require.NoError(t, err)
	assert.Equal(t, units[0].Code, code)
	assert.Equal(t, 1, p.metrics.issued["unit"])
}

func TestIdentity_AsignacionCondicional(t *testing.T) {
	p := newPlant(t)
	_, units := p.bundle(t, 1)

	ok, err := p.units.AssignCode(p.ctx, units[0].ID, "10009999", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, units[0].Code, p.unit(t, units[0].ID).Code)
}

func TestIdentity_ResolveIdaYVuelta(t *testing.T) {
	p := newPlant(t)
	b, units := p.bundle(t, 3)

	res, err := p.registry.Resolve(p.ctx, b.Code)
	require.NoError(t, err)
	assert.Equal(t, domaintracking.NamespaceBundle, res.Namespace)
	require.NotNil(t, res.Bundle)
	assert.Len(t, res.Units, 3)

	res, err = p.registry.Resolve(p.ctx, units[2].Code)
	require.NoError(t, err)
	assert.Nil(t, res.Bundle)
	require.Len(t, res.Units, 1)
	assert.Equal(t, units[2].ID, res.Units[0].ID)
}

func TestIdentity_ResolveBultoArchivado(t *testing.T) {
	p := newPlant(t)
	b, _ := p.bundle(t, 1)
	require.NoError(t, p.units.SoftDeleteByBundle(p.ctx, b.ID))
	require.NoError(t, p.bundles.SoftDelete(p.ctx, b.ID))

	_, err := p.registry.Resolve(p.ctx, b.Code)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestIdentity_PiezaInexistente(t *testing.T) {
	p := newPlant(t)
	_, err := p.registry.IssueUnitCode(p.ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = p.registry.IssueBundleCode(p.ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdentity_SinEncoder_SoloCodigo(t *testing.T) {
	p := newPlant(t)
	b := &entity.Bundle{ProductionBatchID: p.batchID, MaterialID: p.materialID, Quantity: 1}
	require.NoError(t, p.bundles.Create(p.ctx, b))

	// Registro sin imágenes: el código se emite igual.
	reg := newBareRegistry(p)
	code, err := reg.IssueBundleCode(p.ctx, b.ID)
	require.NoError(t, err)
	got, err := p.bundles.GetByID(p.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, code, got.Code)
	assert.Empty(t, got.ImageRef)
}

// vanishingUnits simula que la pieza se archiva entre el intento de asignación y la relectura.
type vanishingUnits struct {
	repository.UnitRepository
}

func (v vanishingUnits) AssignCode(ctx context.Context, id int64, _, _ string) (bool, error) {
	u, err := v.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return false, v.SoftDeleteByBundle(ctx, u.BundleID)
}

type vanishingBundles struct {
	repository.BundleRepository
}

func (v vanishingBundles) AssignCode(ctx context.Context, id int64, _, _ string) (bool, error) {
	return false, v.SoftDelete(ctx, id)
}

func TestIdentity_PiezaDesaparecidaAlReleer_NoEncontrada(t *testing.T) {
	p := newPlant(t)
	b := &entity.Bundle{ProductionBatchID: p.batchID, MaterialID: p.materialID, Quantity: 1}
	require.NoError(t, p.bundles.Create(p.ctx, b))
	u := &entity.TrackableUnit{BundleID: b.ID}
	require.NoError(t, p.units.Create(p.ctx, u))

	reg := tracking.NewIdentityRegistry(vanishingBundles{p.bundles}, vanishingUnits{p.units}, nil, nil, nil, logger.Nop())

	_, err := reg.IssueUnitCode(p.ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotContains(t, err.Error(), "%!w")

	_, err = reg.IssueBundleCode(p.ctx, b.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotContains(t, err.Error(), "%!w")
}
