package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// ReferenceUseCase catálogos de referencia: compradores, temporadas, tallas, colores,
// estilos, materiales y lotes.
type ReferenceUseCase struct {
	refs  repository.ReferenceRepository
	lines repository.ProductionLineRepository
}

// NewReferenceUseCase construye el caso de uso.
func NewReferenceUseCase(refs repository.ReferenceRepository, lines repository.ProductionLineRepository) *ReferenceUseCase {
	return &ReferenceUseCase{refs: refs, lines: lines}
}

func validKind(kind string) bool {
	switch kind {
	case entity.ReferenceBuyer, entity.ReferenceSeason, entity.ReferenceSize, entity.ReferenceColor:
		return true
	}
	return false
}

// CreateNamed alta de un elemento de catálogo simple.
func (uc *ReferenceUseCase) CreateNamed(ctx context.Context, kind string, in dto.NamedRequest) (*dto.NamedResponse, error) {
	name := strings.TrimSpace(in.Name)
	if !validKind(kind) || name == "" {
		return nil, domain.ErrInvalidInput
	}
	r := &entity.Reference{Name: name, CreatedAt: time.Now()}
	if err := uc.refs.CreateNamed(ctx, kind, r); err != nil {
		return nil, err
	}
	return &dto.NamedResponse{ID: r.ID, Name: r.Name}, nil
}

// ListNamed lista un catálogo simple.
func (uc *ReferenceUseCase) ListNamed(ctx context.Context, kind string) ([]dto.NamedResponse, error) {
	if !validKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.refs.ListNamed(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NamedResponse{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// CreateStyle alta de estilo.
func (uc *ReferenceUseCase) CreateStyle(ctx context.Context, in dto.CreateStyleRequest) (*dto.StyleResponse, error) {
	name := strings.TrimSpace(in.StyleName)
	if name == "" || in.BuyerID <= 0 || in.SeasonID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Style{
		BuyerID:             in.BuyerID,
		SeasonID:            in.SeasonID,
		StyleName:           name,
		BuyerContractNumber: strings.TrimSpace(in.BuyerContractNumber),
		CreatedAt:           time.Now(),
	}
	if err := uc.refs.CreateStyle(ctx, s); err != nil {
		return nil, err
	}
	return styleToResponse(s), nil
}

// ListStyles lista estilos.
func (uc *ReferenceUseCase) ListStyles(ctx context.Context) ([]dto.StyleResponse, error) {
	list, err := uc.refs.ListStyles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StyleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *styleToResponse(s))
	}
	return out, nil
}

// CreateMaterial alta de material de un estilo. Unidad por defecto: "pcs".
func (uc *ReferenceUseCase) CreateMaterial(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.StyleID <= 0 || strings.TrimSpace(in.MaterialType) == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}
	m := &entity.Material{
		StyleID:      in.StyleID,
		Name:         name,
		MaterialType: strings.TrimSpace(in.MaterialType),
		Unit:         unit,
		ColorID:      in.ColorID,
		CreatedAt:    time.Now(),
	}
	if err := uc.refs.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

// ListMaterials lista materiales, opcionalmente de un estilo.
func (uc *ReferenceUseCase) ListMaterials(ctx context.Context, styleID *int64) ([]dto.MaterialResponse, error) {
	list, err := uc.refs.ListMaterials(ctx, styleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *materialToResponse(m))
	}
	return out, nil
}

// CreateBatch alta de lote con sus líneas asignadas. Sin número se genera uno.
func (uc *ReferenceUseCase) CreateBatch(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.StyleID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, id := range in.ProductionLines {
		l, err := uc.lines.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	number := strings.TrimSpace(in.BatchNumber)
	if number == "" {
		number = fmt.Sprintf("LOTE-%d-%s", in.StyleID, now.Format("20060102150405"))
	}
	b := &entity.ProductionBatch{StyleID: in.StyleID, BatchNumber: number, CreatedAt: now}
	if err := uc.refs.CreateBatch(ctx, b); err != nil {
		return nil, err
	}
	if len(in.ProductionLines) > 0 {
		if err := uc.refs.AssignBatchLines(ctx, b.ID, in.ProductionLines); err != nil {
			return nil, err
		}
	}
	lines := in.ProductionLines
	if lines == nil {
		lines = []int64{}
	}
	return &dto.BatchResponse{ID: b.ID, StyleID: b.StyleID, BatchNumber: b.BatchNumber, ProductionLines: lines}, nil
}

// ListBatches lista lotes con sus líneas.
func (uc *ReferenceUseCase) ListBatches(ctx context.Context) ([]dto.BatchResponse, error) {
	list, err := uc.refs.ListBatches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		lines, err := uc.refs.BatchLines(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if lines == nil {
			lines = []int64{}
		}
		out = append(out, dto.BatchResponse{ID: b.ID, StyleID: b.StyleID, BatchNumber: b.BatchNumber, ProductionLines: lines})
	}
	return out, nil
}

func styleToResponse(s *entity.Style) *dto.StyleResponse {
	return &dto.StyleResponse{
		ID:                  s.ID,
		BuyerID:             s.BuyerID,
		SeasonID:            s.SeasonID,
		StyleName:           s.StyleName,
		BuyerContractNumber: s.BuyerContractNumber,
	}
}

func materialToResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:           m.ID,
		StyleID:      m.StyleID,
		Name:         m.Name,
		MaterialType: m.MaterialType,
		Unit:         m.Unit,
		ColorID:      m.ColorID,
	}
}
