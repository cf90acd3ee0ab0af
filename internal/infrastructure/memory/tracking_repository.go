package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

// ScannerRepo escáneres en memoria.
type ScannerRepo struct{ s *Store }

// NewScannerRepo crea el repositorio.
func NewScannerRepo(s *Store) *ScannerRepo { return &ScannerRepo{s: s} }

var _ repository.ScannerRepository = (*ScannerRepo)(nil)

func (r *ScannerRepo) Create(ctx context.Context, sc *entity.Scanner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.data.scanners {
		if o.Name == sc.Name && o.DeletedAt == nil {
			return domain.ErrDuplicate
		}
	}
	sc.ID = r.s.nextID("scanners")
	r.s.data.scanners[sc.ID] = *sc
	return nil
}

func (r *ScannerRepo) GetByID(ctx context.Context, id int64) (*entity.Scanner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.data.scanners[id]
	if !ok || sc.DeletedAt != nil {
		return nil, nil
	}
	return &sc, nil
}

func (r *ScannerRepo) GetByName(ctx context.Context, name string) (*entity.Scanner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sc := range r.s.data.scanners {
		if sc.Name == name && sc.DeletedAt == nil {
			return &sc, nil
		}
	}
	return nil, nil
}

func (r *ScannerRepo) List(ctx context.Context, lineID *int64) ([]*entity.Scanner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Scanner
	for _, sc := range r.s.data.scanners {
		if sc.DeletedAt != nil {
			continue
		}
		if lineID != nil && (sc.ProductionLineID == nil || *sc.ProductionLineID != *lineID) {
			continue
		}
		out = append(out, ptr(sc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ProductionLineRepo líneas en memoria.
type ProductionLineRepo struct{ s *Store }

// NewProductionLineRepo crea el repositorio.
func NewProductionLineRepo(s *Store) *ProductionLineRepo { return &ProductionLineRepo{s: s} }

var _ repository.ProductionLineRepository = (*ProductionLineRepo)(nil)

func (r *ProductionLineRepo) Create(ctx context.Context, l *entity.ProductionLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID("lines")
	r.s.data.lines[l.ID] = *l
	return nil
}

func (r *ProductionLineRepo) GetByID(ctx context.Context, id int64) (*entity.ProductionLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.data.lines[id]
	if !ok || l.DeletedAt != nil {
		return nil, nil
	}
	return &l, nil
}

func (r *ProductionLineRepo) List(ctx context.Context) ([]*entity.ProductionLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductionLine
	for _, l := range r.s.data.lines {
		if l.DeletedAt == nil {
			out = append(out, ptr(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// BundleRepo bultos en memoria.
type BundleRepo struct {
	s *Store
	j *journal // nil fuera de una transacción
}

// NewBundleRepo crea el repositorio.
func NewBundleRepo(s *Store) *BundleRepo { return &BundleRepo{s: s} }

var _ repository.BundleRepository = (*BundleRepo)(nil)

func (r *BundleRepo) Create(ctx context.Context, b *entity.Bundle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.nextID("bundles")
	putRow(r.j, r.s.data.bundles, b.ID, *b)
	return nil
}

func (r *BundleRepo) GetByID(ctx context.Context, id int64) (*entity.Bundle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.bundles[id]
	if !ok || b.DeletedAt != nil {
		return nil, nil
	}
	return &b, nil
}

func (r *BundleRepo) GetByCode(ctx context.Context, code string) (*entity.Bundle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.bundles {
		if b.Code == code && b.DeletedAt == nil {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *BundleRepo) AssignCode(ctx context.Context, id int64, code, imageRef string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.bundles[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if b.Code != "" {
		return false, nil
	}
	b.Code, b.ImageRef, b.UpdatedAt = code, imageRef, r.s.now()
	putRow(r.j, r.s.data.bundles, id, b)
	return true, nil
}

func (r *BundleRepo) SoftDelete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.bundles[id]
	if !ok || b.DeletedAt != nil {
		return domain.ErrNotFound
	}
	b.DeletedAt = ptr(r.s.now())
	putRow(r.j, r.s.data.bundles, id, b)
	return nil
}

// UnitRepo piezas en memoria.
type UnitRepo struct {
	s *Store
	j *journal // nil fuera de una transacción
}

// NewUnitRepo crea el repositorio.
func NewUnitRepo(s *Store) *UnitRepo { return &UnitRepo{s: s} }

var _ repository.UnitRepository = (*UnitRepo)(nil)

func (r *UnitRepo) Create(ctx context.Context, u *entity.TrackableUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.nextID("units")
	stored := *u
	stored.Flow = copyIDs(u.Flow)
	putRow(r.j, r.s.data.units, u.ID, stored)
	return nil
}

func (r *UnitRepo) get(id int64) (*entity.TrackableUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	u.Flow = copyIDs(u.Flow)
	return &u, nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id int64) (*entity.TrackableUnit, error) {
	return r.get(id)
}

// GetForUpdate no bloquea: el TxRunner ya serializa las transacciones.
func (r *UnitRepo) GetForUpdate(ctx context.Context, id int64) (*entity.TrackableUnit, error) {
	return r.get(id)
}

func (r *UnitRepo) GetByCode(ctx context.Context, code string) (*entity.TrackableUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.units {
		if u.Code == code && u.DeletedAt == nil {
			u.Flow = copyIDs(u.Flow)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UnitRepo) ListByBundle(ctx context.Context, bundleID int64) ([]*entity.TrackableUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TrackableUnit
	for _, u := range r.s.data.units {
		if u.BundleID == bundleID && u.DeletedAt == nil {
			u.Flow = copyIDs(u.Flow)
			out = append(out, ptr(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// liveUnitsOfBatch piezas vigentes del lote; requiere mu tomado.
func (s *Store) liveUnitsOfBatch(batchID int64) []entity.TrackableUnit {
	var out []entity.TrackableUnit
	for _, u := range s.data.units {
		if u.DeletedAt != nil {
			continue
		}
		b, ok := s.data.bundles[u.BundleID]
		if !ok || b.DeletedAt != nil || b.ProductionBatchID != batchID {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r *UnitRepo) CountByBatch(ctx context.Context, batchID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.liveUnitsOfBatch(batchID)), nil
}

func (r *UnitRepo) UpdateLocation(ctx context.Context, unitID int64, lineID *int64, appendLine bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[unitID]
	if !ok {
		return domain.ErrNotFound
	}
	if lineID != nil {
		u.CurrentProductionLineID = ptr(*lineID)
		if appendLine && !u.Visited(*lineID) {
			u.Flow = append(copyIDs(u.Flow), *lineID)
		}
	} else {
		u.CurrentProductionLineID = nil
	}
	u.UpdatedAt = r.s.now()
	putRow(r.j, r.s.data.units, unitID, u)
	return nil
}

func (r *UnitRepo) AssignCode(ctx context.Context, id int64, code, imageRef string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if u.Code != "" {
		return false, nil
	}
	u.Code, u.ImageRef, u.UpdatedAt = code, imageRef, r.s.now()
	putRow(r.j, r.s.data.units, id, u)
	return true, nil
}

func (r *UnitRepo) SoftDeleteByBundle(ctx context.Context, bundleID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, u := range r.s.data.units {
		if u.BundleID == bundleID && u.DeletedAt == nil {
			u.DeletedAt = ptr(now)
			putRow(r.j, r.s.data.units, id, u)
		}
	}
	return nil
}

// label arma la proyección de etiqueta; requiere mu tomado.
func (s *Store) label(u entity.TrackableUnit) entity.UnitLabel {
	l := entity.UnitLabel{UnitID: u.ID, BundleID: u.BundleID, Code: u.Code}
	b, ok := s.data.bundles[u.BundleID]
	if !ok {
		return l
	}
	if m, ok := s.data.materials[b.MaterialID]; ok {
		l.Material = m.Name
	}
	if b.SizeID != nil {
		l.Size = s.data.named[entity.ReferenceSize][*b.SizeID].Name
	}
	if b.ColorID != nil {
		l.Color = s.data.named[entity.ReferenceColor][*b.ColorID].Name
	}
	batch, ok := s.data.batches[b.ProductionBatchID]
	if !ok {
		return l
	}
	l.BatchNumber = batch.BatchNumber
	if st, ok := s.data.styles[batch.StyleID]; ok {
		l.Style = st.StyleName
		l.Buyer = s.data.named[entity.ReferenceBuyer][st.BuyerID].Name
		l.Season = s.data.named[entity.ReferenceSeason][st.SeasonID].Name
	}
	return l
}

func (r *UnitRepo) Label(ctx context.Context, id int64) (*entity.UnitLabel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.units[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	l := r.s.label(u)
	return &l, nil
}

func (r *UnitRepo) LabelsByBundle(ctx context.Context, bundleID int64) ([]entity.UnitLabel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.UnitLabel
	for _, u := range r.s.data.units {
		if u.BundleID == bundleID && u.DeletedAt == nil {
			out = append(out, r.s.label(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}

// ScanEventRepo log de escaneos en memoria.
type ScanEventRepo struct {
	s *Store
	j *journal // nil fuera de una transacción
}

// NewScanEventRepo crea el repositorio.
func NewScanEventRepo(s *Store) *ScanEventRepo { return &ScanEventRepo{s: s} }

var _ repository.ScanEventRepository = (*ScanEventRepo)(nil)

func (r *ScanEventRepo) CreateIfAbsent(ctx context.Context, e *entity.ScanEvent) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := eventKey{scannerID: e.ScannerID, unitID: e.UnitID}
	if _, dup := r.s.data.eventKeys[key]; dup {
		return false, nil
	}
	r.s.data.eventKeys[key] = struct{}{}
	r.s.data.events = append(r.s.data.events, *e)
	id := e.ID
	r.j.add(func() {
		delete(r.s.data.eventKeys, key)
		r.s.data.events = slices.DeleteFunc(r.s.data.events, func(x entity.ScanEvent) bool { return x.ID == id })
	})
	return true, nil
}

// record une el evento con su escáner y su control; requiere mu tomado.
func (s *Store) record(e entity.ScanEvent) entity.ScanRecord {
	rec := entity.ScanRecord{EventID: e.ID, UnitID: e.UnitID, ScannerID: e.ScannerID, ScannedAt: e.ScannedAt}
	if sc, ok := s.data.scanners[e.ScannerID]; ok {
		rec.Role = sc.Role
		if sc.ProductionLineID != nil {
			rec.LineID = ptr(*sc.ProductionLineID)
		}
	}
	if id, ok := s.data.checkByEvent[e.ID]; ok {
		rec.QualityStatus = ptr(s.data.checks[id].Status)
	}
	return rec
}

func (r *ScanEventRepo) ListByUnit(ctx context.Context, unitID int64) ([]entity.ScanRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ScanRecord
	for _, e := range r.s.data.events {
		if e.UnitID == unitID {
			out = append(out, r.s.record(e))
		}
	}
	return out, nil
}

func (r *ScanEventRepo) ListByBatch(ctx context.Context, batchID int64) ([]entity.ScanRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	live := make(map[int64]struct{})
	for _, u := range r.s.liveUnitsOfBatch(batchID) {
		live[u.ID] = struct{}{}
	}
	var out []entity.ScanRecord
	for _, e := range r.s.data.events {
		if _, ok := live[e.UnitID]; ok {
			out = append(out, r.s.record(e))
		}
	}
	return out, nil
}

// QualityCheckRepo controles de calidad en memoria.
type QualityCheckRepo struct {
	s *Store
	j *journal // nil fuera de una transacción
}

// NewQualityCheckRepo crea el repositorio.
func NewQualityCheckRepo(s *Store) *QualityCheckRepo { return &QualityCheckRepo{s: s} }

var _ repository.QualityCheckRepository = (*QualityCheckRepo)(nil)

func (r *QualityCheckRepo) Create(ctx context.Context, qc *entity.QualityCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, dup := r.s.data.checkByEvent[qc.ScanEventID]; dup {
		return domain.ErrDuplicate
	}
	stored := *qc
	stored.DefectIDs = copyIDs(qc.DefectIDs)
	putRow(r.j, r.s.data.checks, qc.ID, stored)
	putRow(r.j, r.s.data.checkByEvent, qc.ScanEventID, qc.ID)
	return nil
}

func (r *QualityCheckRepo) GetByScanEvent(ctx context.Context, scanEventID string) (*entity.QualityCheck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.data.checkByEvent[scanEventID]
	if !ok {
		return nil, nil
	}
	qc := r.s.data.checks[id]
	qc.DefectIDs = copyIDs(qc.DefectIDs)
	return &qc, nil
}

// DefectRepo catálogo de defectos en memoria.
type DefectRepo struct{ s *Store }

// NewDefectRepo crea el repositorio.
func NewDefectRepo(s *Store) *DefectRepo { return &DefectRepo{s: s} }

var _ repository.DefectRepository = (*DefectRepo)(nil)

func (r *DefectRepo) Create(ctx context.Context, d *entity.Defect) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.nextID("defects")
	r.s.data.defects[d.ID] = *d
	return nil
}

func (r *DefectRepo) List(ctx context.Context) ([]*entity.Defect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Defect
	for _, d := range r.s.data.defects {
		if d.DeletedAt == nil {
			out = append(out, ptr(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DefectRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[int64]struct{}, len(ids))
	var out []int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if d, ok := r.s.data.defects[id]; ok && d.DeletedAt == nil {
			out = append(out, id)
		}
	}
	return out, nil
}

// ReworkRepo asignaciones de retrabajo en memoria.
type ReworkRepo struct {
	s *Store
	j *journal // nil fuera de una transacción
}

// NewReworkRepo crea el repositorio.
func NewReworkRepo(s *Store) *ReworkRepo { return &ReworkRepo{s: s} }

var _ repository.ReworkRepository = (*ReworkRepo)(nil)

func (r *ReworkRepo) Create(ctx context.Context, ra *entity.ReworkAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	putRow(r.j, r.s.data.rework, ra.ID, *ra)
	return nil
}

func (r *ReworkRepo) GetByID(ctx context.Context, id string) (*entity.ReworkAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ra, ok := r.s.data.rework[id]
	if !ok {
		return nil, nil
	}
	return &ra, nil
}

func (r *ReworkRepo) GetByQualityCheck(ctx context.Context, qualityCheckID string) (*entity.ReworkAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ra := range r.s.data.rework {
		if ra.QualityCheckID == qualityCheckID {
			return &ra, nil
		}
	}
	return nil, nil
}

func (r *ReworkRepo) List(ctx context.Context, lineID *int64, pendingOnly bool) ([]*entity.ReworkAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ReworkAssignment
	for _, ra := range r.s.data.rework {
		if pendingOnly && ra.Completed {
			continue
		}
		if lineID != nil && (ra.ProductionLineID == nil || *ra.ProductionLineID != *lineID) {
			continue
		}
		out = append(out, ptr(ra))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ReworkRepo) MarkCompleted(ctx context.Context, id string) (*entity.ReworkAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ra, ok := r.s.data.rework[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := r.s.now()
	ra.Completed, ra.CompletedAt, ra.UpdatedAt = true, ptr(now), now
	putRow(r.j, r.s.data.rework, id, ra)
	return &ra, nil
}
