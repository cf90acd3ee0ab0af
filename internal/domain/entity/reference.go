package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference dato de catálogo con solo nombre (comprador, temporada, talla, color).
type Reference struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Tipos de catálogo simples.
const (
	ReferenceBuyer  = "buyers"
	ReferenceSeason = "seasons"
	ReferenceSize   = "sizes"
	ReferenceColor  = "colors"
)

// Style estilo de prenda de un comprador en una temporada.
type Style struct {
	ID                  int64
	BuyerID             int64
	SeasonID            int64
	StyleName           string
	BuyerContractNumber string
	CreatedAt           time.Time
	DeletedAt           *time.Time
}

// Material componente de un estilo (tela, forro, relleno...).
type Material struct {
	ID           int64
	StyleID      int64
	Name         string
	MaterialType string
	Unit         string
	ColorID      *int64
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// ProductionBatch lote de producción de un estilo.
type ProductionBatch struct {
	ID          int64
	StyleID     int64
	BatchNumber string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// ProductionTarget meta diaria por línea y estilo.
type ProductionTarget struct {
	ProductionLineID int64
	StyleID          int64
	Date             time.Time
	TargetQuantity   int
	ActualQuantity   int
	Efficiency       decimal.Decimal // actual / meta * 100, 0 sin meta
	UpdatedAt        time.Time
}

// UnitLabel proyección de solo lectura con los datos que acompañan a un código QR.
// Se arma una vez desde una consulta unida; no se recorre el grafo al renderizar.
type UnitLabel struct {
	UnitID      int64
	BundleID    int64
	Code        string
	Buyer       string
	Season      string
	Style       string
	Material    string
	Size        string
	Color       string
	BatchNumber string
}
