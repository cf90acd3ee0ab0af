package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// Estados del resultado de un escaneo. Los tres se responden con HTTP 200.
const (
	ScanStatusProcessed        = "processed"
	ScanStatusAlreadyProcessed = "already_processed"
	ScanStatusPartial          = "partial"
)

// ScanInput datos de un escaneo recibido desde un lector.
type ScanInput struct {
	ScannerName   string
	Code          string
	QualityStatus string
	DefectIDs     []int64
	Notes         string
	ReworkNotes   string
}

// ScanResult resumen del escaneo: piezas registradas y piezas ya procesadas por este escáner.
type ScanResult struct {
	Processed int
	Skipped   int
	Message   string
	Status    string
}

// ScanIngestUseCase admite escaneos: valida, resuelve el código y registra cada pieza.
type ScanIngestUseCase struct {
	txRunner TxRunner
	scanners repository.ScannerRepository
	registry *IdentityRegistry
	quality  *QualityUseCase
	metrics  ScanMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewScanIngestUseCase construye el caso de uso de ingesta.
func NewScanIngestUseCase(
	txRunner TxRunner,
	scanners repository.ScannerRepository,
	registry *IdentityRegistry,
	quality *QualityUseCase,
	metrics ScanMetrics,
	log *logger.Logger,
) *ScanIngestUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ScanIngestUseCase{
		txRunner: txRunner,
		scanners: scanners,
		registry: registry,
		quality:  quality,
		metrics:  metrics,
		log:      log.Component("ingest"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechar los eventos.
func (uc *ScanIngestUseCase) WithClock(now func() time.Time) *ScanIngestUseCase {
	uc.now = now
	return uc
}

// Ingest registra un escaneo. Todas las validaciones ocurren antes de escribir eventos.
// Cada pieza de un bulto se registra en su propia transacción: si una falla, las
// anteriores quedan registradas, el error viene acompañado del resultado parcial y un
// reintento las reporta como ya procesadas.
func (uc *ScanIngestUseCase) Ingest(ctx context.Context, in ScanInput) (*ScanResult, error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveIngest(time.Since(start)) }()

	scanner, err := uc.scanners.GetByName(ctx, strings.TrimSpace(in.ScannerName))
	if err != nil {
		return nil, err
	}
	if scanner == nil {
		return nil, domain.ErrScannerNotFound
	}
	if !scanner.Assigned() {
		return nil, domain.ErrScannerUnassigned
	}

	var qin QualityInput
	if scanner.Role == entity.ScannerRoleQualityControl {
		status := entity.QualityStatus(strings.ToUpper(strings.TrimSpace(in.QualityStatus)))
		if !status.Valid() {
			return nil, domain.ErrMissingQualityStatus
		}
		qin = QualityInput{
			Status:      status,
			DefectIDs:   in.DefectIDs,
			Notes:       in.Notes,
			ReworkNotes: in.ReworkNotes,
		}
	}

	res, err := uc.registry.Resolve(ctx, strings.TrimSpace(in.Code))
	if err != nil {
		return nil, err
	}

	out := &ScanResult{}
	for _, u := range res.Units {
		admitted, err := uc.scanUnit(ctx, scanner, u.ID, qin)
		if err != nil {
			uc.metrics.ScanRecorded(string(scanner.Role), "error")
			// Las piezas anteriores ya quedaron registradas; se devuelven sus conteos.
			out.Status = ScanStatusPartial
			out.Message = fmt.Sprintf("Escaneo interrumpido en la pieza %d: %d registradas, %d ya procesadas", u.ID, out.Processed, out.Skipped)
			uc.log.Error().Err(err).
				Str("scanner", scanner.Name).
				Str("code", in.Code).
				Int64("unit_id", u.ID).
				Int("processed", out.Processed).
				Int("skipped", out.Skipped).
				Msg("escaneo interrumpido")
			return out, fmt.Errorf("registrar escaneo pieza %d: %w", u.ID, err)
		}
		if admitted {
			out.Processed++
			uc.metrics.ScanRecorded(string(scanner.Role), ScanStatusProcessed)
		} else {
			out.Skipped++
			uc.metrics.ScanRecorded(string(scanner.Role), "duplicate")
		}
	}

	out.Status = scanStatus(out.Processed, out.Skipped)
	out.Message = scanMessage(res, out)
	uc.log.Info().
		Str("scanner", scanner.Name).
		Str("role", string(scanner.Role)).
		Str("code", in.Code).
		Int("processed", out.Processed).
		Int("skipped", out.Skipped).
		Msg("escaneo recibido")
	return out, nil
}

// scanUnit registra una pieza. Devuelve false si el par (escáner, pieza) ya existía.
// La fila de la pieza se bloquea antes de tomar el momento del escaneo, de modo que el
// orden de los eventos de una pieza coincide con el orden de sus transacciones.
func (uc *ScanIngestUseCase) scanUnit(ctx context.Context, scanner *entity.Scanner, unitID int64, qin QualityInput) (bool, error) {
	var admitted bool
	err := uc.txRunner.RunScan(ctx, func(
		events repository.ScanEventRepository,
		units repository.UnitRepository,
		quality repository.QualityCheckRepository,
		rework repository.ReworkRepository,
		defects repository.DefectRepository,
	) error {
		u, err := units.GetForUpdate(ctx, unitID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrInvalidCode
		}

		ev := &entity.ScanEvent{
			ID:        uuid.New().String(),
			ScannerID: scanner.ID,
			UnitID:    u.ID,
			ScannedAt: uc.now(),
		}
		ok, err := events.CreateIfAbsent(ctx, ev)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		admitted = true

		t := tracking.ApplyScan(u, scanner)
		if t.Moved || t.FlowAppend {
			if err := units.UpdateLocation(ctx, u.ID, u.CurrentProductionLineID, t.FlowAppend); err != nil {
				return err
			}
		}
		if t.NeedsQuality {
			if _, _, err := uc.quality.RecordQuality(ctx, quality, rework, defects, ev, scanner, qin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return admitted, nil
}

func scanStatus(processed, skipped int) string {
	switch {
	case skipped == 0:
		return ScanStatusProcessed
	case processed == 0:
		return ScanStatusAlreadyProcessed
	default:
		return ScanStatusPartial
	}
}

func scanMessage(res *Resolution, r *ScanResult) string {
	if res.Bundle == nil {
		code := res.Units[0].Code
		if r.Processed == 0 {
			return fmt.Sprintf("La pieza %s ya fue procesada por este escáner", code)
		}
		return fmt.Sprintf("Pieza %s registrada", code)
	}
	n := len(res.Units)
	switch r.Status {
	case ScanStatusAlreadyProcessed:
		return fmt.Sprintf("Bulto %s de %d piezas ya fue procesado por este escáner", res.Bundle.Code, n)
	case ScanStatusPartial:
		return fmt.Sprintf("Bulto %s de %d piezas: %d registradas, %d ya procesadas", res.Bundle.Code, n, r.Processed, r.Skipped)
	default:
		return fmt.Sprintf("Bulto %s de %d piezas registrado", res.Bundle.Code, n)
	}
}
