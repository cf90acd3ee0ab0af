package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

var errCorte = errors.New("corte de conexión")

type scanRepos = func(
	events repository.ScanEventRepository,
	units repository.UnitRepository,
	quality repository.QualityCheckRepository,
	rework repository.ReworkRepository,
	defects repository.DefectRepository,
) error

// flakyTx falla la transacción número failOn y delega las demás.
type flakyTx struct {
	inner  tracking.TxRunner
	failOn int
	calls  int
}

func (f *flakyTx) RunScan(ctx context.Context, fn scanRepos) error {
	f.calls++
	if f.calls == f.failOn {
		return errCorte
	}
	return f.inner.RunScan(ctx, fn)
}

func TestMemoryTx_RollbackConservaEscriturasAjenas(t *testing.T) {
	p := newPlant(t)
	_, units := p.bundle(t, 1)
	scanner := p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	tx := memory.NewTxRunner(p.store)

	var extraUnit entity.TrackableUnit
	err := tx.RunScan(p.ctx, func(events repository.ScanEventRepository, txUnits repository.UnitRepository,
		_ repository.QualityCheckRepository, _ repository.ReworkRepository, _ repository.DefectRepository) error {
		ok, err := events.CreateIfAbsent(p.ctx, &entity.ScanEvent{ID: "ev-1", ScannerID: scanner.ID, UnitID: units[0].ID, ScannedAt: time.Now()})
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, txUnits.UpdateLocation(p.ctx, units[0].ID, lineRef(p.line1), true))

		// Escrituras de otras peticiones mientras la transacción sigue abierta.
		require.NoError(t, p.lines.Create(p.ctx, &entity.ProductionLine{Name: "Empaque", OperationType: entity.OperationPacking}))
		extraUnit = entity.TrackableUnit{BundleID: units[0].BundleID}
		require.NoError(t, p.units.Create(p.ctx, &extraUnit))
		return errCorte
	})
	require.ErrorIs(t, err, errCorte)

	lines, err := p.lines.List(p.ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
	assert.NotNil(t, p.unit(t, extraUnit.ID))

	u := p.unit(t, units[0].ID)
	assert.Nil(t, u.CurrentProductionLineID)
	assert.Empty(t, u.Flow)
	records, err := p.events.ListByUnit(p.ctx, units[0].ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// La clave (escáner, pieza) también se liberó.
	res, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: units[0].Code})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
}

func TestIngest_FalloAMitadDeBulto_DevuelveConteoParcial(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	b, units := p.bundle(t, 3)

	flaky := &flakyTx{inner: memory.NewTxRunner(p.store), failOn: 2}
	uc := tracking.NewScanIngestUseCase(flaky, p.scanners, p.registry, p.qc, nil, logger.Nop())

	res, err := uc.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: b.Code})
	require.ErrorIs(t, err, errCorte)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, tracking.ScanStatusPartial, res.Status)
	assert.Contains(t, res.Message, "1 registradas")

	assert.NotNil(t, p.unit(t, units[0].ID).CurrentProductionLineID)
	assert.Nil(t, p.unit(t, units[1].ID).CurrentProductionLineID)

	retry, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: b.Code})
	require.NoError(t, err)
	assert.Equal(t, 2, retry.Processed)
	assert.Equal(t, 1, retry.Skipped)
	assert.Equal(t, tracking.ScanStatusPartial, retry.Status)
}
