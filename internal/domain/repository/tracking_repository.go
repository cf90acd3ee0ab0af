package repository

import (
	"context"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

// ScannerRepository puerto de persistencia para escáneres.
type ScannerRepository interface {
	Create(ctx context.Context, s *entity.Scanner) error
	GetByID(ctx context.Context, id int64) (*entity.Scanner, error)
	// GetByName devuelve nil, nil si no existe.
	GetByName(ctx context.Context, name string) (*entity.Scanner, error)
	List(ctx context.Context, lineID *int64) ([]*entity.Scanner, error)
}

// ProductionLineRepository puerto para líneas de producción.
type ProductionLineRepository interface {
	Create(ctx context.Context, l *entity.ProductionLine) error
	GetByID(ctx context.Context, id int64) (*entity.ProductionLine, error)
	List(ctx context.Context) ([]*entity.ProductionLine, error)
}

// BundleRepository puerto para bultos.
type BundleRepository interface {
	Create(ctx context.Context, b *entity.Bundle) error
	GetByID(ctx context.Context, id int64) (*entity.Bundle, error)
	// GetByCode devuelve nil, nil si ningún bulto vigente tiene el código.
	GetByCode(ctx context.Context, code string) (*entity.Bundle, error)
	// AssignCode fija código e imagen solo si el bulto aún no tiene código.
	// Devuelve false si otro proceso ya lo asignó.
	AssignCode(ctx context.Context, id int64, code, imageRef string) (bool, error)
	SoftDelete(ctx context.Context, id int64) error
}

// UnitRepository puerto para piezas rastreables.
type UnitRepository interface {
	Create(ctx context.Context, u *entity.TrackableUnit) error
	GetByID(ctx context.Context, id int64) (*entity.TrackableUnit, error)
	// GetForUpdate bloquea la fila de la pieza dentro de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.TrackableUnit, error)
	GetByCode(ctx context.Context, code string) (*entity.TrackableUnit, error)
	ListByBundle(ctx context.Context, bundleID int64) ([]*entity.TrackableUnit, error)
	CountByBatch(ctx context.Context, batchID int64) (int, error)
	// UpdateLocation persiste la línea actual y agrega (idempotente) la línea al flujo.
	UpdateLocation(ctx context.Context, unitID int64, lineID *int64, appendLine bool) error
	AssignCode(ctx context.Context, id int64, code, imageRef string) (bool, error)
	SoftDeleteByBundle(ctx context.Context, bundleID int64) error
	Label(ctx context.Context, id int64) (*entity.UnitLabel, error)
	LabelsByBundle(ctx context.Context, bundleID int64) ([]entity.UnitLabel, error)
}

// ScanEventRepository puerto del log de escaneos (append-only).
type ScanEventRepository interface {
	// CreateIfAbsent inserta el evento salvo que ya exista uno para (escáner, pieza).
	// Devuelve false, nil si era duplicado.
	CreateIfAbsent(ctx context.Context, e *entity.ScanEvent) (bool, error)
	ListByUnit(ctx context.Context, unitID int64) ([]entity.ScanRecord, error)
	// ListByBatch proyección unida del log para todas las piezas de un lote.
	ListByBatch(ctx context.Context, batchID int64) ([]entity.ScanRecord, error)
}

// QualityCheckRepository puerto para controles de calidad.
type QualityCheckRepository interface {
	Create(ctx context.Context, qc *entity.QualityCheck) error
	GetByScanEvent(ctx context.Context, scanEventID string) (*entity.QualityCheck, error)
}

// DefectRepository catálogo de defectos.
type DefectRepository interface {
	Create(ctx context.Context, d *entity.Defect) error
	List(ctx context.Context) ([]*entity.Defect, error)
	// ExistingIDs filtra ids a los defectos vigentes.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// ReworkRepository puerto para asignaciones de retrabajo.
type ReworkRepository interface {
	Create(ctx context.Context, r *entity.ReworkAssignment) error
	GetByID(ctx context.Context, id string) (*entity.ReworkAssignment, error)
	GetByQualityCheck(ctx context.Context, qualityCheckID string) (*entity.ReworkAssignment, error)
	List(ctx context.Context, lineID *int64, pendingOnly bool) ([]*entity.ReworkAssignment, error)
	MarkCompleted(ctx context.Context, id string) (*entity.ReworkAssignment, error)
}
