package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

var (
	_ repository.ScannerRepository        = (*ScannerRepo)(nil)
	_ repository.ProductionLineRepository = (*ProductionLineRepo)(nil)
	_ repository.BundleRepository         = (*BundleRepo)(nil)
	_ repository.UnitRepository           = (*UnitRepo)(nil)
	_ repository.ScanEventRepository      = (*ScanEventRepo)(nil)
	_ repository.QualityCheckRepository   = (*QualityCheckRepo)(nil)
	_ repository.DefectRepository         = (*DefectRepo)(nil)
	_ repository.ReworkRepository         = (*ReworkRepo)(nil)
)

func parseUUID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidInput
	}
	return u, nil
}

// ScannerRepo implementación de ScannerRepository sobre PostgreSQL.
type ScannerRepo struct {
	q Querier
}

// NewScannerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScannerRepository(q Querier) *ScannerRepo {
	return &ScannerRepo{q: q}
}

const scannerColumns = `id, name, production_line_id, role, created_at, updated_at, deleted_at`

func scanScanner(row pgx.Row) (*entity.Scanner, error) {
	var s entity.Scanner
	var role string
	if err := row.Scan(&s.ID, &s.Name, &s.ProductionLineID, &role, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
		return nil, err
	}
	s.Role = entity.ScannerRole(role)
	return &s, nil
}

func (r *ScannerRepo) Create(ctx context.Context, s *entity.Scanner) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO scanners (name, production_line_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		s.Name, s.ProductionLineID, string(s.Role),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return wrap("create scanner", err)
}

func (r *ScannerRepo) GetByID(ctx context.Context, id int64) (*entity.Scanner, error) {
	s, err := scanScanner(r.q.QueryRow(ctx,
		`SELECT `+scannerColumns+` FROM scanners WHERE id = $1 AND deleted_at IS NULL`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get scanner", err)
	}
	return s, nil
}

func (r *ScannerRepo) GetByName(ctx context.Context, name string) (*entity.Scanner, error) {
	s, err := scanScanner(r.q.QueryRow(ctx,
		`SELECT `+scannerColumns+` FROM scanners WHERE name = $1 AND deleted_at IS NULL`, name))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get scanner by name", err)
	}
	return s, nil
}

func (r *ScannerRepo) List(ctx context.Context, lineID *int64) ([]*entity.Scanner, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+scannerColumns+` FROM scanners
		WHERE deleted_at IS NULL AND ($1::bigint IS NULL OR production_line_id = $1)
		ORDER BY id`, lineID)
	if err != nil {
		return nil, wrap("list scanners", err)
	}
	defer rows.Close()
	var out []*entity.Scanner
	for rows.Next() {
		s, err := scanScanner(rows)
		if err != nil {
			return nil, wrap("scan scanner", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ProductionLineRepo implementación de ProductionLineRepository.
type ProductionLineRepo struct {
	q Querier
}

// NewProductionLineRepository construye el adaptador.
func NewProductionLineRepository(q Querier) *ProductionLineRepo {
	return &ProductionLineRepo{q: q}
}

const lineColumns = `id, name, operation_type, location, created_at, updated_at, deleted_at`

func scanLine(row pgx.Row) (*entity.ProductionLine, error) {
	var l entity.ProductionLine
	var op string
	if err := row.Scan(&l.ID, &l.Name, &op, &l.Location, &l.CreatedAt, &l.UpdatedAt, &l.DeletedAt); err != nil {
		return nil, err
	}
	l.OperationType = entity.OperationCategory(op)
	return &l, nil
}

func (r *ProductionLineRepo) Create(ctx context.Context, l *entity.ProductionLine) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO production_lines (name, operation_type, location)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		l.Name, string(l.OperationType), l.Location,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return wrap("create production line", err)
}

func (r *ProductionLineRepo) GetByID(ctx context.Context, id int64) (*entity.ProductionLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx,
		`SELECT `+lineColumns+` FROM production_lines WHERE id = $1 AND deleted_at IS NULL`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get production line", err)
	}
	return l, nil
}

func (r *ProductionLineRepo) List(ctx context.Context) ([]*entity.ProductionLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+lineColumns+` FROM production_lines WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, wrap("list production lines", err)
	}
	defer rows.Close()
	var out []*entity.ProductionLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, wrap("scan production line", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// BundleRepo implementación de BundleRepository.
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador.
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

const bundleColumns = `id, production_batch_id, material_id, size_id, color_id, quantity,
	COALESCE(code, ''), image_ref, created_at, updated_at, deleted_at`

func scanBundle(row pgx.Row) (*entity.Bundle, error) {
	var b entity.Bundle
	err := row.Scan(&b.ID, &b.ProductionBatchID, &b.MaterialID, &b.SizeID, &b.ColorID, &b.Quantity,
		&b.Code, &b.ImageRef, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BundleRepo) Create(ctx context.Context, b *entity.Bundle) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO bundles (production_batch_id, material_id, size_id, color_id, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		b.ProductionBatchID, b.MaterialID, b.SizeID, b.ColorID, b.Quantity,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return wrap("create bundle", err)
}

func (r *BundleRepo) GetByID(ctx context.Context, id int64) (*entity.Bundle, error) {
	b, err := scanBundle(r.q.QueryRow(ctx,
		`SELECT `+bundleColumns+` FROM bundles WHERE id = $1 AND deleted_at IS NULL`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get bundle", err)
	}
	return b, nil
}

func (r *BundleRepo) GetByCode(ctx context.Context, code string) (*entity.Bundle, error) {
	b, err := scanBundle(r.q.QueryRow(ctx,
		`SELECT `+bundleColumns+` FROM bundles WHERE code = $1 AND deleted_at IS NULL`, code))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get bundle by code", err)
	}
	return b, nil
}

func (r *BundleRepo) AssignCode(ctx context.Context, id int64, code, imageRef string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE bundles SET code = $2, image_ref = $3, updated_at = now()
		WHERE id = $1 AND code IS NULL`, id, code, imageRef)
	if err != nil {
		return false, wrap("assign bundle code", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BundleRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE bundles SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return wrap("archive bundle", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UnitRepo implementación de UnitRepository. El flujo se guarda en unit_flow.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

const unitColumns = `u.id, u.bundle_id, COALESCE(u.code, ''), u.image_ref, u.current_production_line_id,
	ARRAY(SELECT f.production_line_id FROM unit_flow f WHERE f.unit_id = u.id ORDER BY f.position),
	u.created_at, u.updated_at, u.deleted_at`

func scanUnit(row pgx.Row) (*entity.TrackableUnit, error) {
	var u entity.TrackableUnit
	err := row.Scan(&u.ID, &u.BundleID, &u.Code, &u.ImageRef, &u.CurrentProductionLineID,
		&u.Flow, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.TrackableUnit) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO trackable_units (bundle_id) VALUES ($1)
		RETURNING id, created_at, updated_at`, u.BundleID,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return wrap("create unit", err)
}

func (r *UnitRepo) one(ctx context.Context, op, where string, arg any) (*entity.TrackableUnit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM trackable_units u `+where, arg))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id int64) (*entity.TrackableUnit, error) {
	return r.one(ctx, "get unit", `WHERE u.id = $1 AND u.deleted_at IS NULL`, id)
}

func (r *UnitRepo) GetForUpdate(ctx context.Context, id int64) (*entity.TrackableUnit, error) {
	return r.one(ctx, "get unit for update", `WHERE u.id = $1 AND u.deleted_at IS NULL FOR UPDATE OF u`, id)
}

func (r *UnitRepo) GetByCode(ctx context.Context, code string) (*entity.TrackableUnit, error) {
	return r.one(ctx, "get unit by code", `WHERE u.code = $1 AND u.deleted_at IS NULL`, code)
}

func (r *UnitRepo) ListByBundle(ctx context.Context, bundleID int64) ([]*entity.TrackableUnit, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+unitColumns+` FROM trackable_units u
		WHERE u.bundle_id = $1 AND u.deleted_at IS NULL ORDER BY u.id`, bundleID)
	if err != nil {
		return nil, wrap("list units", err)
	}
	defer rows.Close()
	var out []*entity.TrackableUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, wrap("scan unit", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UnitRepo) CountByBatch(ctx context.Context, batchID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM trackable_units u
		JOIN bundles b ON b.id = u.bundle_id
		WHERE b.production_batch_id = $1 AND u.deleted_at IS NULL AND b.deleted_at IS NULL`, batchID).Scan(&n)
	if err != nil {
		return 0, wrap("count units", err)
	}
	return n, nil
}

func (r *UnitRepo) UpdateLocation(ctx context.Context, unitID int64, lineID *int64, appendLine bool) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE trackable_units SET current_production_line_id = $2, updated_at = now()
		WHERE id = $1`, unitID, lineID)
	if err != nil {
		return wrap("update unit location", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if !appendLine || lineID == nil {
		return nil
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO unit_flow (unit_id, production_line_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM unit_flow WHERE unit_id = $1
		ON CONFLICT (unit_id, production_line_id) DO NOTHING`, unitID, *lineID)
	return wrap("append unit flow", err)
}

func (r *UnitRepo) AssignCode(ctx context.Context, id int64, code, imageRef string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE trackable_units SET code = $2, image_ref = $3, updated_at = now()
		WHERE id = $1 AND code IS NULL`, id, code, imageRef)
	if err != nil {
		return false, wrap("assign unit code", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UnitRepo) SoftDeleteByBundle(ctx context.Context, bundleID int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE trackable_units SET deleted_at = now(), updated_at = now()
		WHERE bundle_id = $1 AND deleted_at IS NULL`, bundleID)
	return wrap("archive units", err)
}

const labelQuery = `
	SELECT u.id, u.bundle_id, COALESCE(u.code, ''),
		COALESCE(bu.name, ''), COALESCE(se.name, ''), COALESCE(st.style_name, ''),
		COALESCE(m.name, ''), COALESCE(sz.name, ''), COALESCE(c.name, ''), COALESCE(pb.batch_number, '')
	FROM trackable_units u
	JOIN bundles b ON b.id = u.bundle_id
	LEFT JOIN materials m ON m.id = b.material_id
	LEFT JOIN sizes sz ON sz.id = b.size_id
	LEFT JOIN colors c ON c.id = b.color_id
	LEFT JOIN production_batches pb ON pb.id = b.production_batch_id
	LEFT JOIN styles st ON st.id = pb.style_id
	LEFT JOIN buyers bu ON bu.id = st.buyer_id
	LEFT JOIN seasons se ON se.id = st.season_id`

func scanLabel(row pgx.Row) (entity.UnitLabel, error) {
	var l entity.UnitLabel
	err := row.Scan(&l.UnitID, &l.BundleID, &l.Code, &l.Buyer, &l.Season, &l.Style,
		&l.Material, &l.Size, &l.Color, &l.BatchNumber)
	return l, err
}

func (r *UnitRepo) Label(ctx context.Context, id int64) (*entity.UnitLabel, error) {
	l, err := scanLabel(r.q.QueryRow(ctx, labelQuery+` WHERE u.id = $1 AND u.deleted_at IS NULL`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("unit label", err)
	}
	return &l, nil
}

func (r *UnitRepo) LabelsByBundle(ctx context.Context, bundleID int64) ([]entity.UnitLabel, error) {
	rows, err := r.q.Query(ctx, labelQuery+` WHERE u.bundle_id = $1 AND u.deleted_at IS NULL ORDER BY u.id`, bundleID)
	if err != nil {
		return nil, wrap("bundle labels", err)
	}
	defer rows.Close()
	var out []entity.UnitLabel
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, wrap("scan label", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ScanEventRepo log de escaneos. Solo inserta y lee.
type ScanEventRepo struct {
	q Querier
}

// NewScanEventRepository construye el adaptador.
func NewScanEventRepository(q Querier) *ScanEventRepo {
	return &ScanEventRepo{q: q}
}

// CreateIfAbsent se apoya en UNIQUE(scanner_id, unit_id): una tx concurrente que pierde la
// carrera espera el commit de la otra y no inserta nada.
func (r *ScanEventRepo) CreateIfAbsent(ctx context.Context, e *entity.ScanEvent) (bool, error) {
	id, err := parseUUID(e.ID)
	if err != nil {
		return false, err
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO scan_events (id, scanner_id, unit_id, scanned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scanner_id, unit_id) DO NOTHING`,
		id, e.ScannerID, e.UnitID, e.ScannedAt)
	if err != nil {
		return false, wrap("insert scan event", err)
	}
	return tag.RowsAffected() == 1, nil
}

const recordQuery = `
	SELECT e.id::text, e.unit_id, e.scanner_id, s.role, s.production_line_id, e.scanned_at, qc.status
	FROM scan_events e
	JOIN scanners s ON s.id = e.scanner_id
	LEFT JOIN quality_checks qc ON qc.scan_event_id = e.id`

func (r *ScanEventRepo) records(ctx context.Context, op, sql string, arg any) ([]entity.ScanRecord, error) {
	rows, err := r.q.Query(ctx, sql, arg)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var out []entity.ScanRecord
	for rows.Next() {
		var rec entity.ScanRecord
		var role string
		var status *string
		if err := rows.Scan(&rec.EventID, &rec.UnitID, &rec.ScannerID, &role, &rec.LineID, &rec.ScannedAt, &status); err != nil {
			return nil, wrap(op, err)
		}
		rec.Role = entity.ScannerRole(role)
		if status != nil {
			qs := entity.QualityStatus(*status)
			rec.QualityStatus = &qs
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ScanEventRepo) ListByUnit(ctx context.Context, unitID int64) ([]entity.ScanRecord, error) {
	return r.records(ctx, "list scans by unit",
		recordQuery+` WHERE e.unit_id = $1 ORDER BY e.scanned_at, e.id`, unitID)
}

func (r *ScanEventRepo) ListByBatch(ctx context.Context, batchID int64) ([]entity.ScanRecord, error) {
	return r.records(ctx, "list scans by batch", recordQuery+`
		JOIN trackable_units u ON u.id = e.unit_id
		JOIN bundles b ON b.id = u.bundle_id
		WHERE b.production_batch_id = $1 AND u.deleted_at IS NULL AND b.deleted_at IS NULL
		ORDER BY e.scanned_at, e.id`, batchID)
}

// QualityCheckRepo controles de calidad y sus defectos.
type QualityCheckRepo struct {
	q Querier
}

// NewQualityCheckRepository construye el adaptador.
func NewQualityCheckRepository(q Querier) *QualityCheckRepo {
	return &QualityCheckRepo{q: q}
}

func (r *QualityCheckRepo) Create(ctx context.Context, qc *entity.QualityCheck) error {
	id, err := parseUUID(qc.ID)
	if err != nil {
		return err
	}
	eventID, err := parseUUID(qc.ScanEventID)
	if err != nil {
		return err
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO quality_checks (id, scan_event_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		id, eventID, string(qc.Status), qc.Notes,
	).Scan(&qc.CreatedAt)
	if err != nil {
		return wrap("create quality check", err)
	}
	if len(qc.DefectIDs) == 0 {
		return nil
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO quality_check_defects (quality_check_id, defect_id)
		SELECT $1, d FROM unnest($2::bigint[]) AS d
		ON CONFLICT DO NOTHING`, id, qc.DefectIDs)
	return wrap("attach defects", err)
}

func (r *QualityCheckRepo) GetByScanEvent(ctx context.Context, scanEventID string) (*entity.QualityCheck, error) {
	eventID, err := parseUUID(scanEventID)
	if err != nil {
		return nil, err
	}
	var qc entity.QualityCheck
	var status string
	err = r.q.QueryRow(ctx, `
		SELECT qc.id::text, qc.scan_event_id::text, qc.status, qc.notes, qc.created_at,
			ARRAY(SELECT d.defect_id FROM quality_check_defects d WHERE d.quality_check_id = qc.id ORDER BY d.defect_id)
		FROM quality_checks qc WHERE qc.scan_event_id = $1`, eventID,
	).Scan(&qc.ID, &qc.ScanEventID, &status, &qc.Notes, &qc.CreatedAt, &qc.DefectIDs)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get quality check", err)
	}
	qc.Status = entity.QualityStatus(status)
	return &qc, nil
}

// DefectRepo catálogo de defectos.
type DefectRepo struct {
	q Querier
}

// NewDefectRepository construye el adaptador.
func NewDefectRepository(q Querier) *DefectRepo {
	return &DefectRepo{q: q}
}

func (r *DefectRepo) Create(ctx context.Context, d *entity.Defect) error {
	var typ *string
	if d.Type != nil {
		s := string(*d.Type)
		typ = &s
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO defects (type, name, severity_level) VALUES ($1, $2, $3)
		RETURNING id, created_at`, typ, d.Name, d.SeverityLevel,
	).Scan(&d.ID, &d.CreatedAt)
	return wrap("create defect", err)
}

func (r *DefectRepo) List(ctx context.Context) ([]*entity.Defect, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, type, name, severity_level, created_at, deleted_at
		FROM defects WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, wrap("list defects", err)
	}
	defer rows.Close()
	var out []*entity.Defect
	for rows.Next() {
		var d entity.Defect
		var typ *string
		if err := rows.Scan(&d.ID, &typ, &d.Name, &d.SeverityLevel, &d.CreatedAt, &d.DeletedAt); err != nil {
			return nil, wrap("scan defect", err)
		}
		if typ != nil {
			op := entity.OperationCategory(*typ)
			d.Type = &op
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *DefectRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT id FROM defects WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY id`, ids)
	if err != nil {
		return nil, wrap("filter defects", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrap("scan defect id", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ReworkRepo asignaciones de retrabajo.
type ReworkRepo struct {
	q Querier
}

// NewReworkRepository construye el adaptador.
func NewReworkRepository(q Querier) *ReworkRepo {
	return &ReworkRepo{q: q}
}

const reworkColumns = `id::text, quality_check_id::text, production_line_id, notes, completed, completed_at, created_at, updated_at`

func scanRework(row pgx.Row) (*entity.ReworkAssignment, error) {
	var ra entity.ReworkAssignment
	err := row.Scan(&ra.ID, &ra.QualityCheckID, &ra.ProductionLineID, &ra.Notes, &ra.Completed,
		&ra.CompletedAt, &ra.CreatedAt, &ra.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ra, nil
}

func (r *ReworkRepo) Create(ctx context.Context, ra *entity.ReworkAssignment) error {
	id, err := parseUUID(ra.ID)
	if err != nil {
		return err
	}
	qcID, err := parseUUID(ra.QualityCheckID)
	if err != nil {
		return err
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO rework_assignments (id, quality_check_id, production_line_id, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		id, qcID, ra.ProductionLineID, ra.Notes,
	).Scan(&ra.CreatedAt, &ra.UpdatedAt)
	return wrap("create rework assignment", err)
}

func (r *ReworkRepo) GetByID(ctx context.Context, id string) (*entity.ReworkAssignment, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	ra, err := scanRework(r.q.QueryRow(ctx, `SELECT `+reworkColumns+` FROM rework_assignments WHERE id = $1`, uid))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get rework assignment", err)
	}
	return ra, nil
}

func (r *ReworkRepo) GetByQualityCheck(ctx context.Context, qualityCheckID string) (*entity.ReworkAssignment, error) {
	uid, err := parseUUID(qualityCheckID)
	if err != nil {
		return nil, err
	}
	ra, err := scanRework(r.q.QueryRow(ctx,
		`SELECT `+reworkColumns+` FROM rework_assignments WHERE quality_check_id = $1`, uid))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get rework by quality check", err)
	}
	return ra, nil
}

func (r *ReworkRepo) List(ctx context.Context, lineID *int64, pendingOnly bool) ([]*entity.ReworkAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+reworkColumns+` FROM rework_assignments
		WHERE ($1::bigint IS NULL OR production_line_id = $1)
		  AND (NOT $2 OR completed = FALSE)
		ORDER BY created_at, id`, lineID, pendingOnly)
	if err != nil {
		return nil, wrap("list rework", err)
	}
	defer rows.Close()
	var out []*entity.ReworkAssignment
	for rows.Next() {
		ra, err := scanRework(rows)
		if err != nil {
			return nil, wrap("scan rework", err)
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}

func (r *ReworkRepo) MarkCompleted(ctx context.Context, id string) (*entity.ReworkAssignment, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	ra, err := scanRework(r.q.QueryRow(ctx, `
		UPDATE rework_assignments
		SET completed = TRUE, completed_at = COALESCE(completed_at, now()), updated_at = now()
		WHERE id = $1
		RETURNING `+reworkColumns, uid))
	if noRows(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete rework: %w", err)
	}
	return ra, nil
}
