package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScanRequest body para POST /api/scan.
type ScanRequest struct {
	QRData        string  `json:"qr_data" validate:"required"`
	ScannerName   string  `json:"scanner_name" validate:"required,max=100"`
	QualityStatus string  `json:"quality_status,omitempty"`
	DefectIDs     []int64 `json:"defect_ids,omitempty"`
	ReworkNotes   string  `json:"rework_notes,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// ScanResponse resultado de un escaneo (incluye "ya registrado").
type ScanResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"` // processed | already_processed | partial
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// ScanHistoryItem evento del historial de una pieza.
type ScanHistoryItem struct {
	EventID       string    `json:"event_id"`
	ScannerID     int64     `json:"scanner_id"`
	Role          string    `json:"role"`
	LineID        *int64    `json:"line_id,omitempty"`
	ScannedAt     time.Time `json:"scanned_at"`
	QualityStatus string    `json:"quality_status,omitempty"`
}

// UnitResponse pieza con ubicación, flujo e historial.
type UnitResponse struct {
	ID                      int64             `json:"id"`
	BundleID                int64             `json:"bundle_id"`
	Code                    string            `json:"code"`
	ImageRef                string            `json:"image_ref,omitempty"`
	State                   string            `json:"state"`
	CurrentProductionLineID *int64            `json:"current_production_line_id"`
	Flow                    []int64           `json:"flow"`
	History                 []ScanHistoryItem `json:"history,omitempty"`
}

// QualityTallyDTO conteo de controles por resultado.
type QualityTallyDTO struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Rework   int `json:"rework"`
}

// LineStatsDTO métricas de una línea dentro del reporte de lote.
type LineStatsDTO struct {
	LineID               int64           `json:"line_id"`
	LineName             string          `json:"line_name"`
	InputPieces          int             `json:"input_pieces"`
	OutputPieces         int             `json:"output_pieces"`
	ShortageLiability    int             `json:"shortage_liability"`
	EfficiencyPercentage decimal.Decimal `json:"efficiency_percentage"`
	Quality              QualityTallyDTO `json:"quality"`
	MissingQualityChecks int             `json:"missing_quality_checks,omitempty"`
	Issues               []string        `json:"issues,omitempty"`
}

// MaterialCountDTO piezas por material.
type MaterialCountDTO struct {
	MaterialID int64  `json:"material_id"`
	Material   string `json:"material"`
	Count      int    `json:"count"`
}

// BatchReportDTO tablero de un lote: total de piezas, desglose y métricas por línea.
type BatchReportDTO struct {
	BatchID           int64              `json:"batch_id"`
	BatchNumber       string             `json:"batch_number"`
	TotalPieces       int                `json:"total_pieces"`
	MaterialBreakdown []MaterialCountDTO `json:"material_breakdown"`
	Lines             []LineStatsDTO     `json:"production_line_stats"`
	Inconsistent      bool               `json:"inconsistent"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// UnitLineStatusDTO detalle por pieza en una línea.
type UnitLineStatusDTO struct {
	UnitID      int64     `json:"unit_id"`
	Input       bool      `json:"input"`
	Complete    bool      `json:"complete"`
	Reason      string    `json:"reason,omitempty"`
	FirstScanAt time.Time `json:"first_scan_at"`
	NextLineID  *int64    `json:"next_line_id,omitempty"`
}

// ReworkResponse asignación de retrabajo.
type ReworkResponse struct {
	ID               string     `json:"id"`
	QualityCheckID   string     `json:"quality_check_id"`
	ProductionLineID *int64     `json:"production_line_id"`
	Notes            string     `json:"notes"`
	Completed        bool       `json:"rework_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
