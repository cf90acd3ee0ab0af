package repository

import (
	"context"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

// MaterialCount resultado crudo del desglose de piezas por material.
type MaterialCount struct {
	MaterialID int64
	Material   string
	Count      int
}

// ReferenceRepository datos de catálogo sin peso algorítmico.
// kind es uno de entity.ReferenceBuyer, ReferenceSeason, ReferenceSize, ReferenceColor.
type ReferenceRepository interface {
	CreateNamed(ctx context.Context, kind string, r *entity.Reference) error
	ListNamed(ctx context.Context, kind string) ([]*entity.Reference, error)

	CreateStyle(ctx context.Context, s *entity.Style) error
	ListStyles(ctx context.Context) ([]*entity.Style, error)

	CreateMaterial(ctx context.Context, m *entity.Material) error
	GetMaterial(ctx context.Context, id int64) (*entity.Material, error)
	ListMaterials(ctx context.Context, styleID *int64) ([]*entity.Material, error)

	CreateBatch(ctx context.Context, b *entity.ProductionBatch) error
	GetBatch(ctx context.Context, id int64) (*entity.ProductionBatch, error)
	ListBatches(ctx context.Context) ([]*entity.ProductionBatch, error)
	// BatchLines líneas asignadas al lote (vacío = todas).
	BatchLines(ctx context.Context, batchID int64) ([]int64, error)
	AssignBatchLines(ctx context.Context, batchID int64, lineIDs []int64) error
	MaterialBreakdown(ctx context.Context, batchID int64) ([]MaterialCount, error)
}

// TargetRepository metas de producción por línea, estilo y día.
type TargetRepository interface {
	Upsert(ctx context.Context, t *entity.ProductionTarget) error
	List(ctx context.Context, lineID *int64, date *time.Time) ([]*entity.ProductionTarget, error)
}
