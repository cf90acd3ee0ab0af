package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductionLineRequest body para POST /api/lines.
type CreateProductionLineRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	OperationType string `json:"operation_type" validate:"omitempty,oneof=CUTTING SEWING FINISHING PACKING QUILTING DOWNFILLING"`
	Location      string `json:"location,omitempty" validate:"max=255"`
}

// ProductionLineResponse línea de producción.
type ProductionLineResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	OperationType string `json:"operation_type"`
	Location      string `json:"location,omitempty"`
}

// CreateScannerRequest body para POST /api/scanners.
type CreateScannerRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	ProductionLineID *int64 `json:"production_line_id,omitempty"`
	Role             string `json:"type" validate:"omitempty,oneof=IN OUT QC"`
}

// ScannerResponse escáner.
type ScannerResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ProductionLineID *int64 `json:"production_line_id"`
	Role             string `json:"type"`
}

// CreateDefectRequest body para POST /api/defects.
type CreateDefectRequest struct {
	Type          string `json:"type,omitempty" validate:"omitempty,oneof=CUTTING SEWING FINISHING PACKING QUILTING DOWNFILLING"`
	Name          string `json:"name" validate:"required,max=100"`
	SeverityLevel int    `json:"severity_level" validate:"min=0,max=10"`
}

// DefectResponse defecto del catálogo.
type DefectResponse struct {
	ID            int64  `json:"id"`
	Type          string `json:"type,omitempty"`
	Name          string `json:"name"`
	SeverityLevel int    `json:"severity_level"`
}

// NamedRequest body para catálogos simples (compradores, temporadas, tallas, colores).
type NamedRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// NamedResponse elemento de catálogo simple.
type NamedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateStyleRequest body para POST /api/styles.
type CreateStyleRequest struct {
	BuyerID             int64  `json:"buyer_id" validate:"required"`
	SeasonID            int64  `json:"season_id" validate:"required"`
	StyleName           string `json:"style_name" validate:"required,max=100"`
	BuyerContractNumber string `json:"buyer_contract_number,omitempty" validate:"max=200"`
}

// StyleResponse estilo.
type StyleResponse struct {
	ID                  int64  `json:"id"`
	BuyerID             int64  `json:"buyer_id"`
	SeasonID            int64  `json:"season_id"`
	StyleName           string `json:"style_name"`
	BuyerContractNumber string `json:"buyer_contract_number,omitempty"`
}

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	StyleID      int64  `json:"style_id" validate:"required"`
	Name         string `json:"name" validate:"required,max=100"`
	MaterialType string `json:"material_type" validate:"required,max=100"`
	Unit         string `json:"unit,omitempty" validate:"max=20"`
	ColorID      *int64 `json:"color_id,omitempty"`
}

// MaterialResponse material de un estilo.
type MaterialResponse struct {
	ID           int64  `json:"id"`
	StyleID      int64  `json:"style_id"`
	Name         string `json:"name"`
	MaterialType string `json:"material_type"`
	Unit         string `json:"unit"`
	ColorID      *int64 `json:"color_id,omitempty"`
}

// CreateBatchRequest body para POST /api/batches.
type CreateBatchRequest struct {
	StyleID         int64   `json:"style_id" validate:"required"`
	BatchNumber     string  `json:"batch_number,omitempty" validate:"max=100"`
	ProductionLines []int64 `json:"production_lines,omitempty"`
}

// BatchResponse lote de producción.
type BatchResponse struct {
	ID              int64   `json:"id"`
	StyleID         int64   `json:"style_id"`
	BatchNumber     string  `json:"batch_number"`
	ProductionLines []int64 `json:"production_lines"`
}

// CreateBundleRequest body para POST /api/bundles.
type CreateBundleRequest struct {
	ProductionBatchID int64  `json:"production_batch_id" validate:"required"`
	MaterialID        int64  `json:"material_id" validate:"required"`
	SizeID            *int64 `json:"size_id,omitempty"`
	ColorID           *int64 `json:"color_id,omitempty"`
	Quantity          int    `json:"quantity" validate:"required,min=1,max=10000"`
}

// BundleResponse bulto con sus piezas.
type BundleResponse struct {
	ID                int64          `json:"id"`
	ProductionBatchID int64          `json:"production_batch_id"`
	MaterialID        int64          `json:"material_id"`
	SizeID            *int64         `json:"size_id,omitempty"`
	ColorID           *int64         `json:"color_id,omitempty"`
	Quantity          int            `json:"quantity"`
	Code              string         `json:"qr_code"`
	ImageRef          string         `json:"qr_image,omitempty"`
	Units             []UnitResponse `json:"material_pieces"`
}

// UpsertTargetRequest body para PUT /api/targets.
type UpsertTargetRequest struct {
	ProductionLineID int64  `json:"production_line_id" validate:"required"`
	StyleID          int64  `json:"style_id" validate:"required"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	TargetQuantity   int    `json:"target_quantity" validate:"min=0"`
	ActualQuantity   int    `json:"actual_quantity" validate:"min=0"`
}

// TargetResponse meta con eficiencia calculada.
type TargetResponse struct {
	ProductionLineID     int64           `json:"production_line_id"`
	StyleID              int64           `json:"style_id"`
	Date                 string          `json:"date"`
	TargetQuantity       int             `json:"target_quantity"`
	ActualQuantity       int             `json:"actual_quantity"`
	EfficiencyPercentage decimal.Decimal `json:"efficiency_percentage"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
