package tracking

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
)

// ReconciliationUseCase arma el tablero de conciliación de un lote a partir del log de escaneos.
// No toma bloqueos: cada consulta es consistente por sí sola.
type ReconciliationUseCase struct {
	events repository.ScanEventRepository
	units  repository.UnitRepository
	lines  repository.ProductionLineRepository
	refs   repository.ReferenceRepository
	now    func() time.Time
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(
	events repository.ScanEventRepository,
	units repository.UnitRepository,
	lines repository.ProductionLineRepository,
	refs repository.ReferenceRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		events: events,
		units:  units,
		lines:  lines,
		refs:   refs,
		now:    time.Now,
	}
}

// BatchReport métricas por línea del lote, más el total de piezas y el desglose por material.
// Las líneas consideradas son las asignadas al lote (o todas si no tiene) y las que
// aparecen en el log.
func (uc *ReconciliationUseCase) BatchReport(ctx context.Context, batchID int64) (*dto.BatchReportDTO, error) {
	batch, err := uc.refs.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}

	records, err := uc.events.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	total, err := uc.units.CountByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	breakdown, err := uc.refs.MaterialBreakdown(ctx, batchID)
	if err != nil {
		return nil, err
	}

	allLines, err := uc.lines.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(allLines))
	for _, l := range allLines {
		names[l.ID] = l.Name
	}
	assigned, err := uc.refs.BatchLines(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(assigned) == 0 {
		for _, l := range allLines {
			assigned = append(assigned, l.ID)
		}
	}
	lineIDs := unionSorted(assigned, tracking.LinesOf(records))

	report := &dto.BatchReportDTO{
		BatchID:           batch.ID,
		BatchNumber:       batch.BatchNumber,
		TotalPieces:       total,
		MaterialBreakdown: make([]dto.MaterialCountDTO, 0, len(breakdown)),
		Lines:             make([]dto.LineStatsDTO, 0, len(lineIDs)),
		GeneratedAt:       uc.now(),
	}

	sort.SliceStable(breakdown, func(i, j int) bool { return breakdown[i].Count > breakdown[j].Count })
	for _, m := range breakdown {
		report.MaterialBreakdown = append(report.MaterialBreakdown, dto.MaterialCountDTO{
			MaterialID: m.MaterialID,
			Material:   m.Material,
			Count:      m.Count,
		})
	}

	for _, s := range tracking.Reconcile(lineIDs, records) {
		if s.Inconsistent() {
			report.Inconsistent = true
		}
		report.Lines = append(report.Lines, dto.LineStatsDTO{
			LineID:               s.LineID,
			LineName:             names[s.LineID],
			InputPieces:          s.InputCount,
			OutputPieces:         s.OutputCount,
			ShortageLiability:    s.ShortageLiability,
			EfficiencyPercentage: s.Efficiency,
			Quality: dto.QualityTallyDTO{
				Accepted: s.Quality.Accepted,
				Rejected: s.Quality.Rejected,
				Rework:   s.Quality.Rework,
			},
			MissingQualityChecks: s.MissingQualityChecks,
			Issues:               s.Issues,
		})
	}
	return report, nil
}

// LineUnits detalle por pieza del lote en una línea: entrada, terminación y siguiente línea.
func (uc *ReconciliationUseCase) LineUnits(ctx context.Context, batchID, lineID int64) ([]dto.UnitLineStatusDTO, error) {
	batch, err := uc.refs.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	line, err := uc.lines.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	records, err := uc.events.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	statuses := tracking.UnitStatuses(lineID, records)
	out := make([]dto.UnitLineStatusDTO, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, dto.UnitLineStatusDTO{
			UnitID:      st.UnitID,
			Input:       st.Input,
			Complete:    st.Complete,
			Reason:      string(st.Reason),
			FirstScanAt: st.FirstScanAt,
			NextLineID:  st.NextLineID,
		})
	}
	return out, nil
}

func unionSorted(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, list := range [][]int64{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
