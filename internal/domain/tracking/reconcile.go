package tracking

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

// CompletionReason motivo por el que una pieza cuenta como terminada en una línea.
type CompletionReason string

// Motivos de terminación, en orden de precedencia.
const (
	CompletedByOutput  CompletionReason = "OUTPUT"
	CompletedByQuality CompletionReason = "QUALITY_CONTROL"
	CompletedByMove    CompletionReason = "MOVED_ON"
)

// Códigos de inconsistencia reportados (nunca se corrigen).
const (
	IssueNegativeShortage = "NEGATIVE_SHORTAGE"
	IssueQCWithoutCheck   = "QC_WITHOUT_QUALITY_CHECK"
)

var hundred = decimal.NewFromInt(100)

// QualityTally conteo de escaneos QC por resultado.
type QualityTally struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Rework   int `json:"rework"`
}

// Total suma de escaneos QC con control registrado.
func (q QualityTally) Total() int { return q.Accepted + q.Rejected + q.Rework }

func (q *QualityTally) add(s entity.QualityStatus) {
	switch s {
	case entity.QualityAccepted:
		q.Accepted++
	case entity.QualityRejected:
		q.Rejected++
	case entity.QualityRework:
		q.Rework++
	}
}

// LineStats métricas de una línea de producción para un conjunto de piezas.
type LineStats struct {
	LineID               int64
	InputCount           int
	OutputCount          int
	ShortageLiability    int // puede ser negativo solo con datos inconsistentes
	Efficiency           decimal.Decimal
	Quality              QualityTally
	MissingQualityChecks int
	Issues               []string
}

// Inconsistent indica si la línea tiene datos incoherentes.
func (s LineStats) Inconsistent() bool { return len(s.Issues) > 0 }

// UnitLineStatus detalle de una pieza respecto de una línea.
type UnitLineStatus struct {
	UnitID      int64
	LineID      int64
	Input       bool
	Complete    bool
	Reason      CompletionReason
	FirstScanAt time.Time
	NextLineID  *int64 // primera línea distinta escaneada después de la primera lectura aquí
}

// byUnit agrupa el log por pieza, ordenado por momento de escaneo. Dos eventos con el mismo
// ScannedAt se ordenan por EventID: el id es aleatorio, así que el orden entre escaneos
// simultáneos no refleja la llegada, pero es estable para un mismo log y el resultado no
// depende del orden en que el repositorio devuelva las filas.
func byUnit(records []entity.ScanRecord) (map[int64][]entity.ScanRecord, []int64) {
	groups := make(map[int64][]entity.ScanRecord)
	for _, r := range records {
		groups[r.UnitID] = append(groups[r.UnitID], r)
	}
	ids := make([]int64, 0, len(groups))
	for id, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].ScannedAt.Equal(list[j].ScannedAt) {
				return list[i].ScannedAt.Before(list[j].ScannedAt)
			}
			return list[i].EventID < list[j].EventID
		})
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return groups, ids
}

func atLine(r entity.ScanRecord, lineID int64) bool {
	return r.LineID != nil && *r.LineID == lineID
}

// unitStatus evalúa una pieza (log ya ordenado) en la línea. ok=false si nunca se escaneó ahí.
func unitStatus(unitID, lineID int64, list []entity.ScanRecord) (UnitLineStatus, bool) {
	st := UnitLineStatus{UnitID: unitID, LineID: lineID}
	var first *entity.ScanRecord
	var byOutput, byQuality bool
	for i := range list {
		r := list[i]
		if !atLine(r, lineID) {
			continue
		}
		if first == nil {
			first = &list[i]
		}
		switch r.Role {
		case entity.ScannerRoleInput:
			st.Input = true
		case entity.ScannerRoleOutput:
			byOutput = true
		case entity.ScannerRoleQualityControl:
			byQuality = true
		}
	}
	if first == nil {
		return st, false
	}
	st.FirstScanAt = first.ScannedAt
	for _, r := range list {
		if r.LineID == nil || *r.LineID == lineID {
			continue
		}
		if r.ScannedAt.After(first.ScannedAt) {
			next := *r.LineID
			st.NextLineID = &next
			break
		}
	}
	switch {
	case byOutput:
		st.Complete, st.Reason = true, CompletedByOutput
	case byQuality:
		st.Complete, st.Reason = true, CompletedByQuality
	case st.NextLineID != nil:
		st.Complete, st.Reason = true, CompletedByMove
	}
	return st, true
}

// UnitStatuses detalle por pieza de todas las piezas escaneadas alguna vez en la línea.
func UnitStatuses(lineID int64, records []entity.ScanRecord) []UnitLineStatus {
	groups, ids := byUnit(records)
	out := make([]UnitLineStatus, 0, len(ids))
	for _, id := range ids {
		if st, ok := unitStatus(id, lineID, groups[id]); ok {
			out = append(out, st)
		}
	}
	return out
}

// LinesOf devuelve las líneas presentes en el log, ordenadas.
func LinesOf(records []entity.ScanRecord) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range records {
		if r.LineID == nil {
			continue
		}
		if _, ok := seen[*r.LineID]; !ok {
			seen[*r.LineID] = struct{}{}
			ids = append(ids, *r.LineID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Efficiency salida / entrada * 100 redondeado a 2 decimales; 0 sin entradas.
func Efficiency(input, output int) decimal.Decimal {
	if input <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(output)).Div(decimal.NewFromInt(int64(input))).Mul(hundred).Round(2)
}

// Reconcile proyecta el log de escaneos sobre cada línea. Es puro: solo depende de records.
// Si lineIDs es vacío se usan las líneas presentes en el log.
func Reconcile(lineIDs []int64, records []entity.ScanRecord) []LineStats {
	if len(lineIDs) == 0 {
		lineIDs = LinesOf(records)
	}
	groups, ids := byUnit(records)
	stats := make([]LineStats, 0, len(lineIDs))
	for _, lineID := range lineIDs {
		s := LineStats{LineID: lineID}
		for _, id := range ids {
			st, ok := unitStatus(id, lineID, groups[id])
			if !ok {
				continue
			}
			if st.Input {
				s.InputCount++
			}
			if st.Complete {
				s.OutputCount++
			}
		}
		for _, r := range records {
			if !atLine(r, lineID) || r.Role != entity.ScannerRoleQualityControl {
				continue
			}
			if r.QualityStatus == nil {
				s.MissingQualityChecks++
				continue
			}
			s.Quality.add(*r.QualityStatus)
		}
		s.ShortageLiability = s.InputCount - s.OutputCount
		s.Efficiency = Efficiency(s.InputCount, s.OutputCount)
		if s.ShortageLiability < 0 {
			s.Issues = append(s.Issues, IssueNegativeShortage)
		}
		if s.MissingQualityChecks > 0 {
			s.Issues = append(s.Issues, IssueQCWithoutCheck)
		}
		stats = append(stats, s)
	}
	return stats
}
