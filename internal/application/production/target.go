package production

import (
	"context"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// TargetUseCase metas diarias por línea y estilo.
type TargetUseCase struct {
	targets repository.TargetRepository
	lines   repository.ProductionLineRepository
}

// NewTargetUseCase construye el caso de uso.
func NewTargetUseCase(targets repository.TargetRepository, lines repository.ProductionLineRepository) *TargetUseCase {
	return &TargetUseCase{targets: targets, lines: lines}
}

// Upsert crea o reemplaza la meta de (línea, estilo, fecha). La eficiencia la calcula el repositorio.
func (uc *TargetUseCase) Upsert(ctx context.Context, in dto.UpsertTargetRequest) (*dto.TargetResponse, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil || in.TargetQuantity < 0 || in.ActualQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	l, err := uc.lines.GetByID(ctx, in.ProductionLineID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	t := &entity.ProductionTarget{
		ProductionLineID: in.ProductionLineID,
		StyleID:          in.StyleID,
		Date:             date,
		TargetQuantity:   in.TargetQuantity,
		ActualQuantity:   in.ActualQuantity,
		UpdatedAt:        time.Now(),
	}
	if err := uc.targets.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return targetToResponse(t), nil
}

// List metas, filtrables por línea y por fecha (YYYY-MM-DD).
func (uc *TargetUseCase) List(ctx context.Context, lineID *int64, date string) ([]dto.TargetResponse, error) {
	var day *time.Time
	if date != "" {
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		day = &d
	}
	list, err := uc.targets.List(ctx, lineID, day)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TargetResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *targetToResponse(t))
	}
	return out, nil
}

func targetToResponse(t *entity.ProductionTarget) *dto.TargetResponse {
	return &dto.TargetResponse{
		ProductionLineID:     t.ProductionLineID,
		StyleID:              t.StyleID,
		Date:                 t.Date.Format(dateLayout),
		TargetQuantity:       t.TargetQuantity,
		ActualQuantity:       t.ActualQuantity,
		EfficiencyPercentage: t.Efficiency,
		UpdatedAt:            t.UpdatedAt,
	}
}
