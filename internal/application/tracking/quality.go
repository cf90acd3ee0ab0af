package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// QualityInput datos de control de calidad enviados junto con un escaneo QC.
type QualityInput struct {
	Status      entity.QualityStatus
	DefectIDs   []int64
	Notes       string
	ReworkNotes string
}

// QualityUseCase registra controles de calidad y administra el retrabajo.
type QualityUseCase struct {
	reworkRepo repository.ReworkRepository
}

// NewQualityUseCase construye el caso de uso. reworkRepo sirve las operaciones fuera de tx.
func NewQualityUseCase(reworkRepo repository.ReworkRepository) *QualityUseCase {
	return &QualityUseCase{reworkRepo: reworkRepo}
}

// RecordQuality adjunta el control al evento dentro de la transacción del escaneo.
// Los defectos inexistentes se descartan sin error. REWORK con notas de retrabajo
// crea una asignación a la línea del escáner; sin notas no se crea ninguna.
func (uc *QualityUseCase) RecordQuality(
	ctx context.Context,
	quality repository.QualityCheckRepository,
	rework repository.ReworkRepository,
	defects repository.DefectRepository,
	ev *entity.ScanEvent,
	scanner *entity.Scanner,
	in QualityInput,
) (*entity.QualityCheck, *entity.ReworkAssignment, error) {
	if !in.Status.Valid() {
		return nil, nil, domain.ErrMissingQualityStatus
	}

	var known []int64
	if len(in.DefectIDs) > 0 {
		var err error
		known, err = defects.ExistingIDs(ctx, in.DefectIDs)
		if err != nil {
			return nil, nil, err
		}
	}

	now := time.Now()
	qc := &entity.QualityCheck{
		ID:          uuid.New().String(),
		ScanEventID: ev.ID,
		Status:      in.Status,
		DefectIDs:   known,
		Notes:       in.Notes,
		CreatedAt:   now,
	}
	if err := quality.Create(ctx, qc); err != nil {
		return nil, nil, err
	}

	notes := strings.TrimSpace(in.ReworkNotes)
	if in.Status != entity.QualityRework || notes == "" {
		return qc, nil, nil
	}
	ra := &entity.ReworkAssignment{
		ID:               uuid.New().String(),
		QualityCheckID:   qc.ID,
		ProductionLineID: scanner.ProductionLineID,
		Notes:            notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := rework.Create(ctx, ra); err != nil {
		return nil, nil, err
	}
	return qc, ra, nil
}

// CompleteRework marca la asignación como terminada. No modifica el control ni el evento.
func (uc *QualityUseCase) CompleteRework(ctx context.Context, id string) (*entity.ReworkAssignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidInput
	}
	ra, err := uc.reworkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, domain.ErrNotFound
	}
	if ra.Completed {
		return ra, nil
	}
	return uc.reworkRepo.MarkCompleted(ctx, id)
}

// ListRework lista asignaciones, opcionalmente de una línea y solo las pendientes.
func (uc *QualityUseCase) ListRework(ctx context.Context, lineID *int64, pendingOnly bool) ([]*entity.ReworkAssignment, error) {
	list, err := uc.reworkRepo.List(ctx, lineID, pendingOnly)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.ReworkAssignment{}
	}
	return list, nil
}
