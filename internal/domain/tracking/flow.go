package tracking

import "github.com/jhoicas/trazabilidad-api/internal/domain/entity"

// State estado de ubicación de una pieza.
type State string

// Estados de la máquina de flujo. No hay estado terminal.
const (
	StateUnlocated State = "UNLOCATED"
	StateAtLine    State = "AT_LINE"
)

// StateOf deriva el estado de la pieza a partir de su línea actual.
func StateOf(u *entity.TrackableUnit) State {
	if u.CurrentProductionLineID == nil {
		return StateUnlocated
	}
	return StateAtLine
}

// Transition describe el efecto de aplicar un escaneo aceptado.
type Transition struct {
	From         State
	To           State
	Moved        bool // cambió la línea actual
	FlowAppend   bool // la línea se agregó al historial
	NeedsQuality bool // el rol exige registrar control de calidad
}

// ApplyScan aplica la transición del rol del escáner sobre la pieza (mutándola).
// INPUT fija la línea actual y agrega la línea al historial si no estaba;
// OUTPUT y QC no cambian la ubicación.
func ApplyScan(u *entity.TrackableUnit, s *entity.Scanner) Transition {
	t := Transition{From: StateOf(u)}
	switch s.Role {
	case entity.ScannerRoleInput:
		if s.ProductionLineID != nil {
			line := *s.ProductionLineID
			if u.CurrentProductionLineID == nil || *u.CurrentProductionLineID != line {
				t.Moved = true
			}
			u.CurrentProductionLineID = &line
			if !u.Visited(line) {
				u.Flow = append(u.Flow, line)
				t.FlowAppend = true
			}
		}
	case entity.ScannerRoleQualityControl:
		t.NeedsQuality = true
	}
	t.To = StateOf(u)
	return t
}
