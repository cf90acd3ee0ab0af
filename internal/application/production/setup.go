package production

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// SetupUseCase alta y consulta de líneas, escáneres y defectos.
type SetupUseCase struct {
	lines    repository.ProductionLineRepository
	scanners repository.ScannerRepository
	defects  repository.DefectRepository
}

// NewSetupUseCase construye el caso de uso de configuración de planta.
func NewSetupUseCase(
	lines repository.ProductionLineRepository,
	scanners repository.ScannerRepository,
	defects repository.DefectRepository,
) *SetupUseCase {
	return &SetupUseCase{lines: lines, scanners: scanners, defects: defects}
}

// CreateLine registra una línea. Sin tipo de operación se asume SEWING.
func (uc *SetupUseCase) CreateLine(ctx context.Context, in dto.CreateProductionLineRequest) (*dto.ProductionLineResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	op := entity.OperationCategory(strings.ToUpper(in.OperationType))
	if op == "" {
		op = entity.OperationSewing
	}
	if !op.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	l := &entity.ProductionLine{
		Name:          name,
		OperationType: op,
		Location:      strings.TrimSpace(in.Location),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.lines.Create(ctx, l); err != nil {
		return nil, err
	}
	return lineToResponse(l), nil
}

// ListLines lista las líneas vigentes.
func (uc *SetupUseCase) ListLines(ctx context.Context) ([]dto.ProductionLineResponse, error) {
	list, err := uc.lines.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionLineResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *lineToResponse(l))
	}
	return out, nil
}

// CreateScanner registra un escáner. El nombre es único y la línea, si se indica, debe existir.
func (uc *SetupUseCase) CreateScanner(ctx context.Context, in dto.CreateScannerRequest) (*dto.ScannerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	role := entity.ScannerRole(strings.ToUpper(in.Role))
	if role == "" {
		role = entity.ScannerRoleInput
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.scanners.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ProductionLineID != nil {
		l, err := uc.lines.GetByID(ctx, *in.ProductionLineID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	s := &entity.Scanner{
		Name:             name,
		ProductionLineID: in.ProductionLineID,
		Role:             role,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.scanners.Create(ctx, s); err != nil {
		return nil, err
	}
	return scannerToResponse(s), nil
}

// GetScanner devuelve un escáner por id.
func (uc *SetupUseCase) GetScanner(ctx context.Context, id int64) (*dto.ScannerResponse, error) {
	s, err := uc.scanners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return scannerToResponse(s), nil
}

// ListScanners lista escáneres, opcionalmente de una línea.
func (uc *SetupUseCase) ListScanners(ctx context.Context, lineID *int64) ([]dto.ScannerResponse, error) {
	list, err := uc.scanners.List(ctx, lineID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScannerResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *scannerToResponse(s))
	}
	return out, nil
}

// CreateDefect registra un defecto en el catálogo.
func (uc *SetupUseCase) CreateDefect(ctx context.Context, in dto.CreateDefectRequest) (*dto.DefectResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.SeverityLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	d := &entity.Defect{Name: name, SeverityLevel: in.SeverityLevel, CreatedAt: time.Now()}
	if in.Type != "" {
		op := entity.OperationCategory(strings.ToUpper(in.Type))
		if !op.Valid() {
			return nil, domain.ErrInvalidInput
		}
		d.Type = &op
	}
	if err := uc.defects.Create(ctx, d); err != nil {
		return nil, err
	}
	return defectToResponse(d), nil
}

// ListDefects lista el catálogo de defectos.
func (uc *SetupUseCase) ListDefects(ctx context.Context) ([]dto.DefectResponse, error) {
	list, err := uc.defects.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DefectResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *defectToResponse(d))
	}
	return out, nil
}

func lineToResponse(l *entity.ProductionLine) *dto.ProductionLineResponse {
	return &dto.ProductionLineResponse{
		ID:            l.ID,
		Name:          l.Name,
		OperationType: string(l.OperationType),
		Location:      l.Location,
	}
}

func scannerToResponse(s *entity.Scanner) *dto.ScannerResponse {
	return &dto.ScannerResponse{
		ID:               s.ID,
		Name:             s.Name,
		ProductionLineID: s.ProductionLineID,
		Role:             string(s.Role),
	}
}

func defectToResponse(d *entity.Defect) *dto.DefectResponse {
	r := &dto.DefectResponse{ID: d.ID, Name: d.Name, SeverityLevel: d.SeverityLevel}
	if d.Type != nil {
		r.Type = string(*d.Type)
	}
	return r
}
