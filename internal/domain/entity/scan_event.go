package entity

import "time"

// ScanEvent registro inmutable (escáner, pieza, momento). Nunca se modifica ni se borra.
type ScanEvent struct {
	ID        string
	ScannerID int64
	UnitID    int64
	ScannedAt time.Time
}

// ScanRecord proyección de lectura del log: el evento unido con el rol y la línea del escáner
// y, si existe, el estado del control de calidad adjunto.
type ScanRecord struct {
	EventID       string
	UnitID        int64
	ScannerID     int64
	Role          ScannerRole
	LineID        *int64
	ScannedAt     time.Time
	QualityStatus *QualityStatus
}
