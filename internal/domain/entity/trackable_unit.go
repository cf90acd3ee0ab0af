package entity

import "time"

// TrackableUnit pieza escaneable individualmente. Pertenece siempre a un bulto;
// un bulto de cantidad 1 modela una pieza suelta.
//
// CurrentProductionLineID es un valor derivado (caché) del log de escaneos.
// Flow conserva el orden de inserción de las líneas visitadas, sin repetidos.
type TrackableUnit struct {
	ID                      int64
	BundleID                int64
	Code                    string
	ImageRef                string
	CurrentProductionLineID *int64
	Flow                    []int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
	DeletedAt               *time.Time
}

// Visited indica si la pieza ya pasó por la línea.
func (u *TrackableUnit) Visited(lineID int64) bool {
	for _, id := range u.Flow {
		if id == lineID {
			return true
		}
	}
	return false
}
