package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

var _ tracking.TxRunner = (*TxRunner)(nil)
var _ production.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunScan registra el escaneo de una pieza: evento, ubicación y control de calidad.
func (r *TxRunner) RunScan(ctx context.Context, fn func(
	events repository.ScanEventRepository,
	units repository.UnitRepository,
	quality repository.QualityCheckRepository,
	rework repository.ReworkRepository,
	defects repository.DefectRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewScanEventRepository(tx),
			NewUnitRepository(tx),
			NewQualityCheckRepository(tx),
			NewReworkRepository(tx),
			NewDefectRepository(tx),
		)
	})
}

// RunBundle crea o archiva un bulto junto con sus piezas.
func (r *TxRunner) RunBundle(ctx context.Context, fn func(
	bundles repository.BundleRepository,
	units repository.UnitRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewBundleRepository(tx), NewUnitRepository(tx))
	})
}
