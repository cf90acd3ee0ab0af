package entity

import "time"

// ScannerRole determina qué transición dispara un escaneo.
type ScannerRole string

// Roles de escáner.
const (
	ScannerRoleInput          ScannerRole = "IN"  // entrada a la línea
	ScannerRoleOutput         ScannerRole = "OUT" // salida de la línea
	ScannerRoleQualityControl ScannerRole = "QC"  // control de calidad
)

// Valid indica si el rol es conocido.
func (r ScannerRole) Valid() bool {
	return r == ScannerRoleInput || r == ScannerRoleOutput || r == ScannerRoleQualityControl
}

// Scanner identidad fija de un lector QR, asociada a lo sumo a una línea de producción.
// Se considera inmutable una vez creada.
type Scanner struct {
	ID               int64
	Name             string
	ProductionLineID *int64
	Role             ScannerRole
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// Assigned indica si el escáner tiene línea de producción.
func (s *Scanner) Assigned() bool {
	return s.ProductionLineID != nil
}
