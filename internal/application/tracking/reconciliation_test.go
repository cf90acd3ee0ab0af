package tracking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

func lineStats(t *testing.T, r *dto.BatchReportDTO, line int64) dto.LineStatsDTO {
	t.Helper()
	for _, l := range r.Lines {
		if l.LineID == line {
			return l
		}
	}
	require.FailNow(t, "línea ausente del reporte")
	return dto.LineStatsDTO{}
}

func TestBatchReport_FlujoEntreLineas(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	p.scanner(t, "in-2", entity.ScannerRoleInput, lineRef(p.line2))
	p.scanner(t, "qc-2", entity.ScannerRoleQualityControl, lineRef(p.line2))
	b, units := p.bundle(t, 4)

	_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: b.Code})
	require.NoError(t, err)
	// Dos piezas pasan a la línea 2; una de ellas además pasa control.
	for _, u := range units[:2] {
		_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-2", Code: u.Code})
		require.NoError(t, err)
	}
	_, err = p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "qc-2", Code: units[0].Code, QualityStatus: "ACCEPTED"})
	require.NoError(t, err)

	r, err := p.recon.BatchReport(p.ctx, p.batchID)
	require.NoError(t, err)
	assert.Equal(t, 4, r.TotalPieces)
	assert.Equal(t, "L-001", r.BatchNumber)
	require.Len(t, r.MaterialBreakdown, 1)
	assert.Equal(t, 4, r.MaterialBreakdown[0].Count)
	assert.False(t, r.Inconsistent)

	l1 := lineStats(t, r, p.line1)
	assert.Equal(t, "Costura 1", l1.LineName)
	assert.Equal(t, 4, l1.InputPieces)
	assert.Equal(t, 2, l1.OutputPieces)
	assert.Equal(t, 2, l1.ShortageLiability)
	assert.Equal(t, "50", l1.EfficiencyPercentage.String())

	l2 := lineStats(t, r, p.line2)
	assert.Equal(t, 2, l2.InputPieces)
	assert.Equal(t, 1, l2.OutputPieces)
	assert.Equal(t, 1, l2.Quality.Accepted)
}

func TestBatchReport_SinEscaneos_TodasLasLineasEnCero(t *testing.T) {
	p := newPlant(t)
	p.bundle(t, 2)

	r, err := p.recon.BatchReport(p.ctx, p.batchID)
	require.NoError(t, err)
	require.Len(t, r.Lines, 2)
	for _, l := range r.Lines {
		assert.Zero(t, l.InputPieces)
		assert.Equal(t, "0", l.EfficiencyPercentage.String())
	}
}

func TestBatchReport_LoteInexistente(t *testing.T) {
	p := newPlant(t)
	_, err := p.recon.BatchReport(p.ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineUnits_DetallePorPieza(t *testing.T) {
	p := newPlant(t)
	p.scanner(t, "in-1", entity.ScannerRoleInput, lineRef(p.line1))
	p.scanner(t, "out-1", entity.ScannerRoleOutput, lineRef(p.line1))
	_, units := p.bundle(t, 2)

	for _, u := range units {
		_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "in-1", Code: u.Code})
		require.NoError(t, err)
	}
	_, err := p.ingest.Ingest(p.ctx, tracking.ScanInput{ScannerName: "out-1", Code: units[1].Code})
	require.NoError(t, err)

	detail, err := p.recon.LineUnits(p.ctx, p.batchID, p.line1)
	require.NoError(t, err)
	require.Len(t, detail, 2)
	assert.False(t, detail[0].Complete)
	assert.True(t, detail[1].Complete)
	assert.Equal(t, "OUTPUT", detail[1].Reason)
}
