package tracking_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

func TestIngest_PiezaEntrada_FijaLineaYFlujo(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	_, units := p.bundle(t, 1)

	res, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: units[0].Code})
	require.NoError(t, err)
	assert.Equal(t, tracking.ScanStatusProcessed, res.Status)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Skipped)
	assert.Contains(t, res.Message, units[0].Code)

	u := p.unit(t, units[0].ID)
	require.NotNil(t, u.CurrentProductionLineID)
	assert.Equal(t, p.line1, *u.CurrentProductionLineID)
	assert.Equal(t, []int64{p.line1}, u.Flow)
	assert.Equal(t, 1, p.metrics.scans["IN/processed"])
}

func TestIngest_MismoEscanerDosVeces_YaProcesado(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	_, units := p.bundle(t, 1)
	in := tracking.ScanInput{ScannerName: "in-1", Code: units[0].Code}

	_, err := p.ingest.Ingest(p.ctx, in)
	require.NoError(t, err)
	res, err := p.ingest.Ingest(p.ctx, in)
	require.NoError(t, err)

	assert.Equal(t, tracking.ScanStatusAlreadyProcessed, res.Status)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)

	records, err := p.events.ListByUnit(p.ctx, units[0].ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestIngest_Bulto_RegistraCadaPieza(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	b, units := p.bundle(t, 3)

	res, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: b.Code})
	require.NoError(t, err)
	assert.Equal(t, tracking.ScanStatusProcessed, res.Status)
	assert.Equal(t, 3, res.Processed)
	assert.Contains(t, res.Message, "3 piezas")

	for _, u := range units {
		got := p.unit(t, u.ID)
		require.NotNil(t, got.CurrentProductionLineID)
		assert.Equal(t, p.line1, *got.CurrentProductionLineID)
	}
}

func TestIngest_BultoConPiezaYaLeida_Parcial(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	b, units := p.bundle(t, 3)

	_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: units[1].Code})
	require.NoError(t, err)

	res, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: b.Code})
	require.NoError(t, err)
	assert.Equal(t, tracking.ScanStatusPartial, res.Status)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Skipped)
}

func TestIngest_SalidaYQC_NoCambianUbicacion(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	p.scanner(t, "out-2", entity.ScannerRoleOutput, lineRef(p.line2))
	p.scanner(t, "qc-2", entity.ScannerRoleQualityControl, lineRef(p.line2))
	_, units := p.bundle(t, 1)
	code := units[0].Code

	_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: code})
	require.NoError(t, err)
	_, err = p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "out-2", Code: code})
	require.NoError(t, err)
	_, err = p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "qc-2", Code: code, QualityStatus: "ACCEPTED"})
	require.NoError(t, err)

	u := p.unit(t, units[0].ID)
	require.NotNil(t, u.CurrentProductionLineID)
	assert.Equal(t, p.line1, *u.CurrentProductionLineID)
	assert.Equal(t, []int64{p.line1}, u.Flow)
}

func TestIngest_ReingresoALinea_NoDuplicaFlujo(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1a", entity.ScannerRoleInput, lineRef(p.line1))
	p.scanner(t, "in-2", entity.ScannerRoleInput, lineRef(p.line2))
	p.scanner(t, "in-1b", entity.ScannerRoleInput, lineRef(p.line1))
	_, units := p.bundle(t, 1)
	code := units[0].Code

	for _, name := range []string{"in-1a", "in-2", "in-1b"} {
		_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: name, Code: code})
		require.NoError(t, err)
	}

	u := p.unit(t, units[0].ID)
	assert.Equal(t, p.line1, *u.CurrentProductionLineID)
	assert.Equal(t, []int64{p.line1, p.line2}, u.Flow)
}

func TestIngest_Validaciones_AntesDeEscribir(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	p.scanner(t, "suelto", entity.ScannerRoleInput, nil)
	p.scanner(t, "qc-1", entity.ScannerRoleQualityControl, lineRef(p.line1))
	_, units := p.bundle(t, 1)
	code := units[0].Code

	empty := &entity.Bundle{ProductionBatchID: p.batchID, MaterialID: p.materialID, Quantity: 1}
	require.NoError(t, p.bundles.Create(p.ctx, empty))
	_, err := p.registry.IssueBundleCode(p.ctx, empty.ID)
	require.NoError(t, err)
	empty, err = p.bundles.GetByID(p.ctx, empty.ID)
	require.NoError(t, err)

	cases := []struct {
		name string
		in   tracking.ScanInput
		want error
	}{
		{"escáner desconocido", tracking.ScanInput{ScannerName: "nadie", Code: code}, domain.ErrScannerNotFound},
		{"escáner sin línea", tracking.ScanInput{ScannerName: "suelto", Code: code}, domain.ErrScannerUnassigned},
		{"QC sin estado", tracking.ScanInput{ScannerName: "qc-1", Code: code}, domain.ErrMissingQualityStatus},
		{"QC con estado inválido", tracking.ScanInput{ScannerName: "qc-1", Code: code, QualityStatus: "MAYBE"}, domain.ErrMissingQualityStatus},
		{"código mal formado", tracking.ScanInput{ScannerName: "in-1", Code: "12ab"}, domain.ErrInvalidCode},
		{"prefijo desconocido", tracking.ScanInput{ScannerName: "in-1", Code: "30000001"}, domain.ErrInvalidCode},
		{"pieza inexistente", tracking.ScanInput{ScannerName: "in-1", Code: "19999999"}, domain.ErrInvalidCode},
		{"bulto vacío", tracking.ScanInput{ScannerName: "in-1", Code: empty.Code}, domain.ErrEmptyBundle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.ingest.Ingest(p.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	records, err := p.events.ListByUnit(p.ctx, units[0].ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIngest_QCRetrabajoConNotas_CreaAsignacion(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "qc-1", entity.ScannerRoleQualityControl, lineRef(p.line1))
	d := &entity.Defect{Name: "Costura abierta", SeverityLevel: 2}
	require.NoError(t, p.defects.Create(p.ctx, d))
	_, units := p.bundle(t, 1)

	_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{
		ScannerName:   "qc-1",
		Code:          units[0].Code,
		QualityStatus: "rework",
		DefectIDs:     []int64{d.ID, 999},
		ReworkNotes:   "rehacer bolsillo",
	})
	require.NoError(t, err)

	records, err := p.events.ListByUnit(p.ctx, units[0].ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].QualityStatus)
	assert.Equal(t, entity.QualityRework, *records[0].QualityStatus)

	qc, err := p.quality.GetByScanEvent(p.ctx, records[0].EventID)
	require.NoError(t, err)
	require.NotNil(t, qc)
	assert.Equal(t, []int64{d.ID}, qc.DefectIDs)

	pending, err := p.qc.ListRework(p.ctx, lineRef(p.line1), true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, qc.ID, pending[0].QualityCheckID)
	assert.Equal(t, "rehacer bolsillo", pending[0].Notes)
	assert.False(t, pending[0].Completed)
}

func TestIngest_QCRetrabajoSinNotas_SinAsignacion(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "qc-1", entity.ScannerRoleQualityControl, lineRef(p.line1))
	_, units := p.bundle(t, 1)

	_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "qc-1", Code: units[0].Code, QualityStatus: "REWORK"})
	require.NoError(t, err)

	all, err := p.qc.ListRework(p.ctx, nil, false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIngest_Concurrente_UnSoloEventoPorEscanerYPieza(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	_, units := p.bundle(t, 1)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]*tracking.ScanResult, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: units[0].Code})
		}(i)
	}
	wg.Wait()

	processed := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		processed += results[i].Processed
	}
	assert.Equal(t, 1, processed)

	records, err := p.events.ListByUnit(p.ctx, units[0].ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
