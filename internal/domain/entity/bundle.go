package entity

import "time"

// Bundle agrupa piezas que comparten material, talla, color y lote.
// Es dueño de sus piezas: archivar un bulto archiva sus piezas.
type Bundle struct {
	ID                int64
	ProductionBatchID int64
	MaterialID        int64
	SizeID            *int64
	ColorID           *int64
	Quantity          int
	Code              string // código QR (namespace de bultos), vacío hasta emitirse
	ImageRef          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}
