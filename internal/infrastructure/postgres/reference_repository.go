package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
)

var (
	_ repository.ReferenceRepository = (*ReferenceRepo)(nil)
	_ repository.TargetRepository    = (*TargetRepo)(nil)
)

// namedTables son las únicas tablas que admite CreateNamed/ListNamed. kind nunca se
// concatena sin pasar por aquí.
var namedTables = map[string]string{
	entity.ReferenceBuyer:  "buyers",
	entity.ReferenceSeason: "seasons",
	entity.ReferenceSize:   "sizes",
	entity.ReferenceColor:  "colors",
}

// ReferenceRepo catálogos: compradores, temporadas, tallas, colores, estilos, materiales y lotes.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador.
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

func (r *ReferenceRepo) CreateNamed(ctx context.Context, kind string, ref *entity.Reference) error {
	table, ok := namedTables[kind]
	if !ok {
		return domain.ErrInvalidInput
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO `+table+` (name) VALUES ($1) RETURNING id, created_at`, ref.Name,
	).Scan(&ref.ID, &ref.CreatedAt)
	return wrap("create "+kind, err)
}

func (r *ReferenceRepo) ListNamed(ctx context.Context, kind string) ([]*entity.Reference, error) {
	table, ok := namedTables[kind]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, name, created_at, deleted_at FROM `+table+` WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, wrap("list "+kind, err)
	}
	defer rows.Close()
	var out []*entity.Reference
	for rows.Next() {
		var ref entity.Reference
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.CreatedAt, &ref.DeletedAt); err != nil {
			return nil, wrap("scan "+kind, err)
		}
		out = append(out, &ref)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) CreateStyle(ctx context.Context, s *entity.Style) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO styles (buyer_id, season_id, style_name, buyer_contract_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		s.BuyerID, s.SeasonID, s.StyleName, s.BuyerContractNumber,
	).Scan(&s.ID, &s.CreatedAt)
	return wrap("create style", err)
}

func (r *ReferenceRepo) ListStyles(ctx context.Context) ([]*entity.Style, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, buyer_id, season_id, style_name, buyer_contract_number, created_at, deleted_at
		FROM styles WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, wrap("list styles", err)
	}
	defer rows.Close()
	var out []*entity.Style
	for rows.Next() {
		var s entity.Style
		if err := rows.Scan(&s.ID, &s.BuyerID, &s.SeasonID, &s.StyleName, &s.BuyerContractNumber,
			&s.CreatedAt, &s.DeletedAt); err != nil {
			return nil, wrap("scan style", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

const materialColumns = `id, style_id, name, material_type, unit, color_id, created_at, deleted_at`

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.ID, &m.StyleID, &m.Name, &m.MaterialType, &m.Unit, &m.ColorID,
		&m.CreatedAt, &m.DeletedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ReferenceRepo) CreateMaterial(ctx context.Context, m *entity.Material) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO materials (style_id, name, material_type, unit, color_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		m.StyleID, m.Name, m.MaterialType, m.Unit, m.ColorID,
	).Scan(&m.ID, &m.CreatedAt)
	return wrap("create material", err)
}

func (r *ReferenceRepo) GetMaterial(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1 AND deleted_at IS NULL`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get material", err)
	}
	return m, nil
}

func (r *ReferenceRepo) ListMaterials(ctx context.Context, styleID *int64) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+materialColumns+` FROM materials
		WHERE deleted_at IS NULL AND ($1::bigint IS NULL OR style_id = $1)
		ORDER BY id`, styleID)
	if err != nil {
		return nil, wrap("list materials", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, wrap("scan material", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) CreateBatch(ctx context.Context, b *entity.ProductionBatch) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO production_batches (style_id, batch_number) VALUES ($1, $2)
		RETURNING id, created_at`, b.StyleID, b.BatchNumber,
	).Scan(&b.ID, &b.CreatedAt)
	return wrap("create batch", err)
}

func (r *ReferenceRepo) GetBatch(ctx context.Context, id int64) (*entity.ProductionBatch, error) {
	var b entity.ProductionBatch
	err := r.q.QueryRow(ctx, `
		SELECT id, style_id, batch_number, created_at, deleted_at
		FROM production_batches WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&b.ID, &b.StyleID, &b.BatchNumber, &b.CreatedAt, &b.DeletedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get batch", err)
	}
	return &b, nil
}

func (r *ReferenceRepo) ListBatches(ctx context.Context) ([]*entity.ProductionBatch, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, style_id, batch_number, created_at, deleted_at
		FROM production_batches WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, wrap("list batches", err)
	}
	defer rows.Close()
	var out []*entity.ProductionBatch
	for rows.Next() {
		var b entity.ProductionBatch
		if err := rows.Scan(&b.ID, &b.StyleID, &b.BatchNumber, &b.CreatedAt, &b.DeletedAt); err != nil {
			return nil, wrap("scan batch", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) BatchLines(ctx context.Context, batchID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT production_line_id FROM production_batch_lines
		WHERE batch_id = $1 ORDER BY production_line_id`, batchID)
	if err != nil {
		return nil, wrap("batch lines", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// AssignBatchLines agrega líneas al lote; las ya asignadas se ignoran.
func (r *ReferenceRepo) AssignBatchLines(ctx context.Context, batchID int64, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_batch_lines (batch_id, production_line_id)
		SELECT $1, l FROM unnest($2::bigint[]) AS l
		ON CONFLICT DO NOTHING`, batchID, lineIDs)
	return wrap("assign batch lines", err)
}

func (r *ReferenceRepo) MaterialBreakdown(ctx context.Context, batchID int64) ([]repository.MaterialCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.name, count(u.id)
		FROM trackable_units u
		JOIN bundles b ON b.id = u.bundle_id
		JOIN materials m ON m.id = b.material_id
		WHERE b.production_batch_id = $1 AND u.deleted_at IS NULL AND b.deleted_at IS NULL
		GROUP BY m.id, m.name
		ORDER BY count(u.id) DESC, m.id`, batchID)
	if err != nil {
		return nil, wrap("material breakdown", err)
	}
	defer rows.Close()
	var out []repository.MaterialCount
	for rows.Next() {
		var mc repository.MaterialCount
		if err := rows.Scan(&mc.MaterialID, &mc.Material, &mc.Count); err != nil {
			return nil, wrap("scan material count", err)
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// TargetRepo metas diarias. La eficiencia la calcula la columna generada.
type TargetRepo struct {
	q Querier
}

// NewTargetRepository construye el adaptador.
func NewTargetRepository(q Querier) *TargetRepo {
	return &TargetRepo{q: q}
}

func (r *TargetRepo) Upsert(ctx context.Context, t *entity.ProductionTarget) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO production_targets (production_line_id, style_id, date, target_quantity, actual_quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (production_line_id, style_id, date) DO UPDATE
		SET target_quantity = EXCLUDED.target_quantity,
		    actual_quantity = EXCLUDED.actual_quantity,
		    updated_at = now()
		RETURNING efficiency, updated_at`,
		t.ProductionLineID, t.StyleID, t.Date, t.TargetQuantity, t.ActualQuantity,
	).Scan(&t.Efficiency, &t.UpdatedAt)
	return wrap("upsert target", err)
}

func (r *TargetRepo) List(ctx context.Context, lineID *int64, date *time.Time) ([]*entity.ProductionTarget, error) {
	rows, err := r.q.Query(ctx, `
		SELECT production_line_id, style_id, date, target_quantity, actual_quantity, efficiency, updated_at
		FROM production_targets
		WHERE ($1::bigint IS NULL OR production_line_id = $1)
		  AND ($2::date IS NULL OR date = $2)
		ORDER BY date, production_line_id, style_id`, lineID, date)
	if err != nil {
		return nil, wrap("list targets", err)
	}
	defer rows.Close()
	var out []*entity.ProductionTarget
	for rows.Next() {
		var t entity.ProductionTarget
		if err := rows.Scan(&t.ProductionLineID, &t.StyleID, &t.Date, &t.TargetQuantity,
			&t.ActualQuantity, &t.Efficiency, &t.UpdatedAt); err != nil {
			return nil, wrap("scan target", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
