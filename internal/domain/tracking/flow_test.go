package tracking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
)

func lineRef(id int64) *int64 { return &id }

func scanner(role entity.ScannerRole, line int64) *entity.Scanner {
	return &entity.Scanner{ID: line*10 + 1, Name: string(role), Role: role, ProductionLineID: lineRef(line)}
}

func TestApplyScan_SinEntradas_SinUbicacion(t *testing.T) {
	u := &entity.TrackableUnit{ID: 1}
	assert.Equal(t, tracking.StateUnlocated, tracking.StateOf(u))

	tracking.ApplyScan(u, scanner(entity.ScannerRoleOutput, 1))
	tracking.ApplyScan(u, scanner(entity.ScannerRoleQualityControl, 1))

	assert.Nil(t, u.CurrentProductionLineID)
	assert.Empty(t, u.Flow)
	assert.Equal(t, tracking.StateUnlocated, tracking.StateOf(u))
}

func TestApplyScan_Entrada_FijaLineaYFlujo(t *testing.T) {
	u := &entity.TrackableUnit{ID: 1}
	tr := tracking.ApplyScan(u, scanner(entity.ScannerRoleInput, 3))

	assert.Equal(t, tracking.StateUnlocated, tr.From)
	assert.Equal(t, tracking.StateAtLine, tr.To)
	assert.True(t, tr.Moved)
	assert.True(t, tr.FlowAppend)
	if assert.NotNil(t, u.CurrentProductionLineID) {
		assert.Equal(t, int64(3), *u.CurrentProductionLineID)
	}
	assert.Equal(t, []int64{3}, u.Flow)
}

// Un ciclo de retrabajo vuelve a una línea visitada: cambia la ubicación sin duplicar el flujo.
func TestApplyScan_CicloRetrabajo_FlujoIdempotente(t *testing.T) {
	u := &entity.TrackableUnit{ID: 1}
	tracking.ApplyScan(u, scanner(entity.ScannerRoleInput, 1))
	tracking.ApplyScan(u, scanner(entity.ScannerRoleInput, 2))
	tr := tracking.ApplyScan(u, scanner(entity.ScannerRoleInput, 1))

	assert.True(t, tr.Moved)
	assert.False(t, tr.FlowAppend)
	assert.Equal(t, int64(1), *u.CurrentProductionLineID)
	assert.Equal(t, []int64{1, 2}, u.Flow)
}

func TestApplyScan_SalidaYQC_NoMuevenLaPieza(t *testing.T) {
	u := &entity.TrackableUnit{ID: 1}
	tracking.ApplyScan(u, scanner(entity.ScannerRoleInput, 1))

	tr := tracking.ApplyScan(u, scanner(entity.ScannerRoleOutput, 2))
	assert.False(t, tr.Moved)
	assert.False(t, tr.NeedsQuality)

	tr = tracking.ApplyScan(u, scanner(entity.ScannerRoleQualityControl, 2))
	assert.False(t, tr.Moved)
	assert.True(t, tr.NeedsQuality)

	assert.Equal(t, int64(1), *u.CurrentProductionLineID)
	assert.Equal(t, []int64{1}, u.Flow)
}
