package tracking

import (
	"context"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios del
// flujo de escaneo atados a esa tx. Cada pieza de un bulto usa su propia transacción.
type TxRunner interface {
	RunScan(ctx context.Context, fn func(
		events repository.ScanEventRepository,
		units repository.UnitRepository,
		quality repository.QualityCheckRepository,
		rework repository.ReworkRepository,
		defects repository.DefectRepository,
	) error) error
}

// ImageEncoder convierte un texto en una imagen escaneable (PNG).
type ImageEncoder interface {
	Encode(text string) ([]byte, error)
}

// ImageStore guarda artefactos de imagen y devuelve una referencia estable.
type ImageStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ScanMetrics instrumentación del flujo de escaneo.
type ScanMetrics interface {
	ScanRecorded(role, result string)
	CodeIssued(namespace string)
	ObserveIngest(d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ScanRecorded(string, string) {}
func (nopMetrics) CodeIssued(string)           {}
func (nopMetrics) ObserveIngest(time.Duration) {}
