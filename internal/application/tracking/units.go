package tracking

import (
	"context"
	"strings"

	"github.com/jhoicas/trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
)

// UnitQueryUseCase consulta piezas con su ubicación y su historial de escaneos.
type UnitQueryUseCase struct {
	units  repository.UnitRepository
	events repository.ScanEventRepository
}

// NewUnitQueryUseCase construye el caso de uso.
func NewUnitQueryUseCase(units repository.UnitRepository, events repository.ScanEventRepository) *UnitQueryUseCase {
	return &UnitQueryUseCase{units: units, events: events}
}

// GetUnit devuelve la pieza por id.
func (uc *UnitQueryUseCase) GetUnit(ctx context.Context, id int64) (*dto.UnitResponse, error) {
	u, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, u)
}

// GetByCode devuelve la pieza por su código QR. Los códigos de bulto no aplican.
func (uc *UnitQueryUseCase) GetByCode(ctx context.Context, code string) (*dto.UnitResponse, error) {
	code = strings.TrimSpace(code)
	ns, err := tracking.ParseCode(code)
	if err != nil {
		return nil, err
	}
	if ns != tracking.NamespaceUnit {
		return nil, domain.ErrInvalidCode
	}
	u, err := uc.units.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, u)
}

func (uc *UnitQueryUseCase) toResponse(ctx context.Context, u *entity.TrackableUnit) (*dto.UnitResponse, error) {
	records, err := uc.events.ListByUnit(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	out := UnitToResponse(u)
	for _, r := range records {
		item := dto.ScanHistoryItem{
			EventID:   r.EventID,
			ScannerID: r.ScannerID,
			Role:      string(r.Role),
			LineID:    r.LineID,
			ScannedAt: r.ScannedAt,
		}
		if r.QualityStatus != nil {
			item.QualityStatus = string(*r.QualityStatus)
		}
		out.History = append(out.History, item)
	}
	return out, nil
}

// UnitToResponse mapea la pieza sin historial.
func UnitToResponse(u *entity.TrackableUnit) *dto.UnitResponse {
	flow := u.Flow
	if flow == nil {
		flow = []int64{}
	}
	return &dto.UnitResponse{
		ID:                      u.ID,
		BundleID:                u.BundleID,
		Code:                    u.Code,
		ImageRef:                u.ImageRef,
		State:                   string(tracking.StateOf(u)),
		CurrentProductionLineID: u.CurrentProductionLineID,
		Flow:                    flow,
	}
}
