package tracking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

type fakeEncoder struct{}

func (fakeEncoder) Encode(text string) ([]byte, error) { return []byte("png:" + text), nil }

type fakeStore struct {
	mu   sync.Mutex
	keys []string
}

func (s *fakeStore) Store(_ context.Context, key string, _ []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "/media/" + key, nil
}

type countingMetrics struct {
	mu     sync.Mutex
	scans  map[string]int
	issued map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{scans: map[string]int{}, issued: map[string]int{}}
}

func (m *countingMetrics) ScanRecorded(role, result string) {
	m.mu.Lock()
	m.scans[role+"/"+result]++
	m.mu.Unlock()
}

func (m *countingMetrics) CodeIssued(ns string) {
	m.mu.Lock()
	m.issued[ns]++
	m.mu.Unlock()
}

func (m *countingMetrics) ObserveIngest(time.Duration) {}

// plant fixture con una planta mínima: lote, material y dos líneas de costura.
type plant struct {
	ctx      context.Context
	store    *memory.Store
	lines    *memory.ProductionLineRepo
	scanners *memory.ScannerRepo
	bundles  *memory.BundleRepo
	units    *memory.UnitRepo
	events   *memory.ScanEventRepo
	defects  *memory.DefectRepo
	rework   *memory.ReworkRepo
	quality  *memory.QualityCheckRepo
	refs     *memory.ReferenceRepo
	images   *fakeStore
	metrics  *countingMetrics

	registry *tracking.IdentityRegistry
	qc       *tracking.QualityUseCase
	ingest   *tracking.ScanIngestUseCase
	recon    *tracking.ReconciliationUseCase

	batchID    int64
	materialID int64
	line1      int64
	line2      int64
}

func newPlant(t *testing.T) *plant {
	t.Helper()
	s := memory.NewStore()
	p := &plant{
		ctx:      context.Background(),
		store:    s,
		lines:    memory.NewProductionLineRepo(s),
		scanners: memory.NewScannerRepo(s),
		bundles:  memory.NewBundleRepo(s),
		units:    memory.NewUnitRepo(s),
		events:   memory.NewScanEventRepo(s),
		defects:  memory.NewDefectRepo(s),
		rework:   memory.NewReworkRepo(s),
		quality:  memory.NewQualityCheckRepo(s),
		refs:     memory.NewReferenceRepo(s),
		images:   &fakeStore{},
		metrics:  newCountingMetrics(),
	}
	log := logger.Nop()
	p.registry = tracking.NewIdentityRegistry(p.bundles, p.units, fakeEncoder{}, p.images, p.metrics, log)
	p.qc = tracking.NewQualityUseCase(p.rework)
	p.ingest = tracking.NewScanIngestUseCase(memory.NewTxRunner(s), p.scanners, p.registry, p.qc, p.metrics, log).
		WithClock(tickingClock())
	p.recon = tracking.NewReconciliationUseCase(p.events, p.units, p.lines, p.refs)

	buyer := &entity.Reference{Name: "Nórdica Outdoor"}
	require.NoError(t, p.refs.CreateNamed(p.ctx, entity.ReferenceBuyer, buyer))
	season := &entity.Reference{Name: "Invierno 2026"}
	require.NoError(t, p.refs.CreateNamed(p.ctx, entity.ReferenceSeason, season))
	style := &entity.Style{BuyerID: buyer.ID, SeasonID: season.ID, StyleName: "Parka Ártica"}
	require.NoError(t, p.refs.CreateStyle(p.ctx, style))
	mat := &entity.Material{StyleID: style.ID, Name: "Tela exterior", MaterialType: "FABRIC", Unit: "pcs"}
	require.NoError(t, p.refs.CreateMaterial(p.ctx, mat))
	batch := &entity.ProductionBatch{StyleID: style.ID, BatchNumber: "L-001"}
	require.NoError(t, p.refs.CreateBatch(p.ctx, batch))
	p.batchID, p.materialID = batch.ID, mat.ID

	l1 := &entity.ProductionLine{Name: "Costura 1", OperationType: entity.OperationSewing}
	require.NoError(t, p.lines.Create(p.ctx, l1))
	l2 := &entity.ProductionLine{Name: "Costura 2", OperationType: entity.OperationSewing}
	require.NoError(t, p.lines.Create(p.ctx, l2))
	p.line1, p.line2 = l1.ID, l2.ID
	return p
}

func (p *plant) scanner(t *testing.T, name string, role entity.ScannerRole, line *int64) *entity.Scanner {
	t.Helper()
	s := &entity.Scanner{Name: name, Role: role, ProductionLineID: line}
	require.NoError(t, p.scanners.Create(p.ctx, s))
	return s
}

// bundle crea un bulto de n piezas con códigos emitidos.
func (p *plant) bundle(t *testing.T, n int) (*entity.Bundle, []*entity.TrackableUnit) {
	t.Helper()
	b := &entity.Bundle{ProductionBatchID: p.batchID, MaterialID: p.materialID, Quantity: n}
	require.NoError(t, p.bundles.Create(p.ctx, b))
	for i := 0; i < n; i++ {
		require.NoError(t, p.units.Create(p.ctx, &entity.TrackableUnit{BundleID: b.ID}))
	}
	require.NoError(t, p.registry.IssueBundleCodes(p.ctx, b.ID))

	b, err := p.bundles.GetByID(p.ctx, b.ID)
	require.NoError(t, err)
	members, err := p.units.ListByBundle(p.ctx, b.ID)
	require.NoError(t, err)
	return b, members
}

func (p *plant) unit(t *testing.T, id int64) *entity.TrackableUnit {
	t.Helper()
	u, err := p.units.GetByID(p.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func lineRef(id int64) *int64 { return &id }

// tickingClock avanza un minuto por lectura para que el orden de los eventos sea estricto.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}
