package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
)

// ReferenceRepo catálogos en memoria.
type ReferenceRepo struct{ s *Store }

// NewReferenceRepo crea el repositorio.
func NewReferenceRepo(s *Store) *ReferenceRepo { return &ReferenceRepo{s: s} }

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

func (r *ReferenceRepo) CreateNamed(ctx context.Context, kind string, ref *entity.Reference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	table, ok := r.s.data.named[kind]
	if !ok {
		return domain.ErrInvalidInput
	}
	for _, o := range table {
		if o.Name == ref.Name && o.DeletedAt == nil {
			return domain.ErrDuplicate
		}
	}
	ref.ID = r.s.nextID(kind)
	table[ref.ID] = *ref
	return nil
}

func (r *ReferenceRepo) ListNamed(ctx context.Context, kind string) ([]*entity.Reference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	table, ok := r.s.data.named[kind]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	var out []*entity.Reference
	for _, ref := range table {
		if ref.DeletedAt == nil {
			out = append(out, ptr(ref))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ReferenceRepo) CreateStyle(ctx context.Context, st *entity.Style) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.named[entity.ReferenceBuyer][st.BuyerID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.data.named[entity.ReferenceSeason][st.SeasonID]; !ok {
		return domain.ErrNotFound
	}
	st.ID = r.s.nextID("styles")
	r.s.data.styles[st.ID] = *st
	return nil
}

func (r *ReferenceRepo) ListStyles(ctx context.Context) ([]*entity.Style, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Style
	for _, st := range r.s.data.styles {
		if st.DeletedAt == nil {
			out = append(out, ptr(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ReferenceRepo) CreateMaterial(ctx context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.styles[m.StyleID]; !ok {
		return domain.ErrNotFound
	}
	m.ID = r.s.nextID("materials")
	r.s.data.materials[m.ID] = *m
	return nil
}

func (r *ReferenceRepo) GetMaterial(ctx context.Context, id int64) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.data.materials[id]
	if !ok || m.DeletedAt != nil {
		return nil, nil
	}
	return &m, nil
}

func (r *ReferenceRepo) ListMaterials(ctx context.Context, styleID *int64) ([]*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Material
	for _, m := range r.s.data.materials {
		if m.DeletedAt != nil || (styleID != nil && m.StyleID != *styleID) {
			continue
		}
		out = append(out, ptr(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ReferenceRepo) CreateBatch(ctx context.Context, b *entity.ProductionBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.styles[b.StyleID]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.data.batches {
		if o.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicate
		}
	}
	b.ID = r.s.nextID("batches")
	r.s.data.batches[b.ID] = *b
	return nil
}

func (r *ReferenceRepo) GetBatch(ctx context.Context, id int64) (*entity.ProductionBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.batches[id]
	if !ok || b.DeletedAt != nil {
		return nil, nil
	}
	return &b, nil
}

func (r *ReferenceRepo) ListBatches(ctx context.Context) ([]*entity.ProductionBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductionBatch
	for _, b := range r.s.data.batches {
		if b.DeletedAt == nil {
			out = append(out, ptr(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ReferenceRepo) BatchLines(ctx context.Context, batchID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyIDs(r.s.data.batchLines[batchID]), nil
}

func (r *ReferenceRepo) AssignBatchLines(ctx context.Context, batchID int64, lineIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[int64]struct{}, len(lineIDs))
	ids := make([]int64, 0, len(lineIDs))
	for _, id := range lineIDs {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	r.s.data.batchLines[batchID] = ids
	return nil
}

func (r *ReferenceRepo) MaterialBreakdown(ctx context.Context, batchID int64) ([]repository.MaterialCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[int64]int)
	for _, u := range r.s.liveUnitsOfBatch(batchID) {
		counts[r.s.data.bundles[u.BundleID].MaterialID]++
	}
	out := make([]repository.MaterialCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, repository.MaterialCount{MaterialID: id, Material: r.s.data.materials[id].Name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].MaterialID < out[j].MaterialID
	})
	return out, nil
}

// TargetRepo metas de producción en memoria.
type TargetRepo struct{ s *Store }

// NewTargetRepo crea el repositorio.
func NewTargetRepo(s *Store) *TargetRepo { return &TargetRepo{s: s} }

var _ repository.TargetRepository = (*TargetRepo)(nil)

// Upsert reemplaza la meta de (línea, estilo, día) y calcula la eficiencia.
func (r *TargetRepo) Upsert(ctx context.Context, t *entity.ProductionTarget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.Efficiency = tracking.Efficiency(t.TargetQuantity, t.ActualQuantity)
	key := targetKey{lineID: t.ProductionLineID, styleID: t.StyleID, date: t.Date.Format("2006-01-02")}
	r.s.data.targets[key] = *t
	return nil
}

func (r *TargetRepo) List(ctx context.Context, lineID *int64, date *time.Time) ([]*entity.ProductionTarget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductionTarget
	for k, t := range r.s.data.targets {
		if lineID != nil && k.lineID != *lineID {
			continue
		}
		if date != nil && k.date != date.Format("2006-01-02") {
			continue
		}
		out = append(out, ptr(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].ProductionLineID != out[j].ProductionLineID {
			return out[i].ProductionLineID < out[j].ProductionLineID
		}
		return out[i].StyleID < out[j].StyleID
	})
	return out, nil
}
