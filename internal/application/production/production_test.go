package production_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

type env struct {
	ctx     context.Context
	setup   *production.SetupUseCase
	refs    *production.ReferenceUseCase
	bundles *production.BundleUseCase
	targets *production.TargetUseCase
	labels  *production.LabelUseCase
	pdf     *fakePDF
	units   *memory.UnitRepo
}

type fakePDF struct {
	bundle *entity.Bundle
	labels []entity.UnitLabel
}

func (f *fakePDF) GenerateBundleLabels(b *entity.Bundle, labels []entity.UnitLabel) ([]byte, error) {
	f.bundle, f.labels = b, labels
	return []byte("%PDF-1.4"), nil
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	lines := memory.NewProductionLineRepo(s)
	bundleRepo := memory.NewBundleRepo(s)
	unitRepo := memory.NewUnitRepo(s)
	refRepo := memory.NewReferenceRepo(s)
	registry := tracking.NewIdentityRegistry(bundleRepo, unitRepo, nil, nil, nil, logger.Nop())
	pdf := &fakePDF{}
	return &env{
		ctx:     context.Background(),
		setup:   production.NewSetupUseCase(lines, memory.NewScannerRepo(s), memory.NewDefectRepo(s)),
		refs:    production.NewReferenceUseCase(refRepo, lines),
		bundles: production.NewBundleUseCase(memory.NewTxRunner(s), bundleRepo, unitRepo, refRepo, registry, logger.Nop()),
		targets: production.NewTargetUseCase(memory.NewTargetRepo(s), lines),
		labels:  production.NewLabelUseCase(bundleRepo, unitRepo, pdf),
		pdf:     pdf,
		units:   unitRepo,
	}
}

// catalog crea comprador, temporada, estilo, material y lote; devuelve (lote, material).
func (e *env) catalog(t *testing.T) (int64, int64) {
	t.Helper()
	buyer, err := e.refs.CreateNamed(e.ctx, entity.ReferenceBuyer, dto.NamedRequest{Name: "Nórdica"})
	require.NoError(t, err)
	season, err := e.refs.CreateNamed(e.ctx, entity.ReferenceSeason, dto.NamedRequest{Name: "FW26"})
	require.NoError(t, err)
	style, err := e.refs.CreateStyle(e.ctx, dto.CreateStyleRequest{BuyerID: buyer.ID, SeasonID: season.ID, StyleName: "Parka"})
	require.NoError(t, err)
	mat, err := e.refs.CreateMaterial(e.ctx, dto.CreateMaterialRequest{StyleID: style.ID, Name: "Forro", MaterialType: "LINING"})
	require.NoError(t, err)
	assert.Equal(t, "pcs", mat.Unit)
	batch, err := e.refs.CreateBatch(e.ctx, dto.CreateBatchRequest{StyleID: style.ID, BatchNumber: "L-7"})
	require.NoError(t, err)
	return batch.ID, mat.ID
}

func TestCreateBundle_CreaPiezasYCodigos(t *testing.T) {
	e := newEnv(t)
	batchID, matID := e.catalog(t)

	b, err := e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: batchID, MaterialID: matID, Quantity: 5})
	require.NoError(t, err)
	assert.Len(t, b.Units, 5)
	assert.Equal(t, "2", b.Code[:1])
	for _, u := range b.Units {
		assert.Equal(t, "1", u.Code[:1])
		assert.Equal(t, "UNLOCATED", u.State)
	}
}

func TestCreateBundle_Validaciones(t *testing.T) {
	e := newEnv(t)
	batchID, matID := e.catalog(t)

	_, err := e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: batchID, MaterialID: matID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: 99, MaterialID: matID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: batchID, MaterialID: 99, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArchiveBundle_ArchivaPiezas(t *testing.T) {
	e := newEnv(t)
	batchID, matID := e.catalog(t)
	b, err := e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: batchID, MaterialID: matID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, e.bundles.ArchiveBundle(e.ctx, b.ID))
	_, err = e.bundles.GetBundle(e.ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	u, err := e.units.GetByID(e.ctx, b.Units[0].ID)
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.ErrorIs(t, e.bundles.ArchiveBundle(e.ctx, b.ID), domain.ErrNotFound)
}

func TestReissueCodes_Idempotente(t *testing.T) {
	e := newEnv(t)
	batchID, matID := e.catalog(t)
	b, err := e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: batchID, MaterialID: matID, Quantity: 2})
	require.NoError(t, err)

	again, err := e.bundles.ReissueCodes(e.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Code, again.Code)
	assert.Equal(t, b.Units[1].Code, again.Units[1].Code)
}

func TestBundleLabels_UsaProyeccion(t *testing.T) {
	e := newEnv(t)
	batchID, matID := e.catalog(t)
	b, err := e.bundles.CreateBundle(e.ctx, dto.CreateBundleRequest{ProductionBatchID: batchID, MaterialID: matID, Quantity: 3})
	require.NoError(t, err)

	pdf, err := e.labels.BundleLabels(e.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	require.Len(t, e.pdf.labels, 3)
	assert.Equal(t, "Nórdica", e.pdf.labels[0].Buyer)
	assert.Equal(t, "Forro", e.pdf.labels[0].Material)
	assert.Equal(t, "L-7", e.pdf.labels[0].BatchNumber)

	_, err = e.labels.BundleLabels(e.ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetup_EscanerNombreUnicoYLinea(t *testing.T) {
	e := newEnv(t)
	line, err := e.setup.CreateLine(e.ctx, dto.CreateProductionLineRequest{Name: "Corte"})
	require.NoError(t, err)
	assert.Equal(t, "SEWING", line.OperationType)

	s, err := e.setup.CreateScanner(e.ctx, dto.CreateScannerRequest{Name: "qc-1", ProductionLineID: &line.ID, Role: "qc"})
	require.NoError(t, err)
	assert.Equal(t, "QC", s.Role)

	_, err = e.setup.CreateScanner(e.ctx, dto.CreateScannerRequest{Name: "qc-1", ProductionLineID: &line.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	missing := int64(404)
	_, err = e.setup.CreateScanner(e.ctx, dto.CreateScannerRequest{Name: "in-x", ProductionLineID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.setup.CreateScanner(e.ctx, dto.CreateScannerRequest{Name: "in-y", Role: "SIDEWAYS"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := e.setup.ListScanners(e.ctx, &line.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSetup_Defectos(t *testing.T) {
	e := newEnv(t)
	d, err := e.setup.CreateDefect(e.ctx, dto.CreateDefectRequest{Name: "Mancha", Type: "finishing", SeverityLevel: 3})
	require.NoError(t, err)
	assert.Equal(t, "FINISHING", d.Type)

	_, err = e.setup.CreateDefect(e.ctx, dto.CreateDefectRequest{Name: "X", Type: "PAINTING"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := e.setup.ListDefects(e.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReference_CatalogoDesconocido(t *testing.T) {
	e := newEnv(t)
	_, err := e.refs.CreateNamed(e.ctx, "planets", dto.NamedRequest{Name: "Marte"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReference_LoteConLineas(t *testing.T) {
	e := newEnv(t)
	e.catalog(t)
	l1, err := e.setup.CreateLine(e.ctx, dto.CreateProductionLineRequest{Name: "Costura"})
	require.NoError(t, err)

	styles, err := e.refs.ListStyles(e.ctx)
	require.NoError(t, err)
	b, err := e.refs.CreateBatch(e.ctx, dto.CreateBatchRequest{StyleID: styles[0].ID, ProductionLines: []int64{l1.ID}})
	require.NoError(t, err)
	assert.NotEmpty(t, b.BatchNumber)

	_, err = e.refs.CreateBatch(e.ctx, dto.CreateBatchRequest{StyleID: styles[0].ID, ProductionLines: []int64{404}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := e.refs.ListBatches(e.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int64{l1.ID}, list[1].ProductionLines)
}

func TestTargets_UpsertYEficiencia(t *testing.T) {
	e := newEnv(t)
	line, err := e.setup.CreateLine(e.ctx, dto.CreateProductionLineRequest{Name: "Empaque", OperationType: "PACKING"})
	require.NoError(t, err)

	_, err = e.targets.Upsert(e.ctx, dto.UpsertTargetRequest{ProductionLineID: line.ID, StyleID: 1, Date: "2026-03-02", TargetQuantity: 300, ActualQuantity: 100})
	require.NoError(t, err)
	got, err := e.targets.Upsert(e.ctx, dto.UpsertTargetRequest{ProductionLineID: line.ID, StyleID: 1, Date: "2026-03-02", TargetQuantity: 300, ActualQuantity: 200})
	require.NoError(t, err)
	assert.Equal(t, "66.67", got.EfficiencyPercentage.String())

	list, err := e.targets.List(e.ctx, &line.ID, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 200, list[0].ActualQuantity)

	_, err = e.targets.List(e.ctx, nil, "02/03/2026")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
