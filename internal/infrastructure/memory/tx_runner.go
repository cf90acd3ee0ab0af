package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// TxRunner serializa las transacciones. Si fn devuelve error se deshacen solo las escrituras
// hechas con los repositorios de la transacción.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner crea un runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(ctx context.Context, fn func(j *journal) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.txMu.Lock()
	defer r.txMu.Unlock()
	j := &journal{}
	if err := fn(j); err != nil {
		r.store.rollback(j)
		return err
	}
	return nil
}

// RunScan ejecuta fn con los repositorios del flujo de escaneo.
func (r *TxRunner) RunScan(ctx context.Context, fn func(
	events repository.ScanEventRepository,
	units repository.UnitRepository,
	quality repository.QualityCheckRepository,
	rework repository.ReworkRepository,
	defects repository.DefectRepository,
) error) error {
	s := r.store
	return r.run(ctx, func(j *journal) error {
		return fn(
			&ScanEventRepo{s: s, j: j},
			&UnitRepo{s: s, j: j},
			&QualityCheckRepo{s: s, j: j},
			&ReworkRepo{s: s, j: j},
			NewDefectRepo(s),
		)
	})
}

// RunBundle ejecuta fn con los repositorios de bultos y piezas.
func (r *TxRunner) RunBundle(ctx context.Context, fn func(
	bundles repository.BundleRepository,
	units repository.UnitRepository,
) error) error {
	s := r.store
	return r.run(ctx, func(j *journal) error {
		return fn(&BundleRepo{s: s, j: j}, &UnitRepo{s: s, j: j})
	})
}
