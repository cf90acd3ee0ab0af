package entity

import "time"

// QualityStatus resultado de un control de calidad.
type QualityStatus string

// Resultados posibles del control de calidad.
const (
	QualityAccepted QualityStatus = "ACCEPTED"
	QualityRejected QualityStatus = "REJECTED"
	QualityRework   QualityStatus = "REWORK"
)

// QualityStatuses orden estable para reportes.
var QualityStatuses = []QualityStatus{QualityAccepted, QualityRejected, QualityRework}

// Valid indica si el estado es conocido.
func (s QualityStatus) Valid() bool {
	return s == QualityAccepted || s == QualityRejected || s == QualityRework
}

// Defect catálogo de defectos, opcionalmente por categoría de operación.
type Defect struct {
	ID            int64
	Type          *OperationCategory
	Name          string
	SeverityLevel int
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// QualityCheck adjunto 1:1 a un ScanEvent de un escáner QC. Inmutable.
type QualityCheck struct {
	ID          string
	ScanEventID string
	Status      QualityStatus
	DefectIDs   []int64
	Notes       string
	CreatedAt   time.Time
}

// ReworkAssignment enruta una pieza en REWORK de vuelta a una línea.
// Completed es el único campo mutable.
type ReworkAssignment struct {
	ID               string
	QualityCheckID   string
	ProductionLineID *int64
	Notes            string
	Completed        bool
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
