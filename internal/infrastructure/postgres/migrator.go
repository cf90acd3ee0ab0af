package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator aplica los .sql embebidos en orden alfabético y registra cada archivo en
// schema_migrations para no repetirlo.
type Migrator struct {
	pool  *pgxpool.Pool
	files fs.FS
	log   *logger.Logger
}

// NewMigrator crea el migrador con las migraciones embebidas en el binario.
func NewMigrator(pool *pgxpool.Pool, log *logger.Logger) *Migrator {
	sub, _ := fs.Sub(migrationFS, "migrations")
	return &Migrator{pool: pool, files: sub, log: log.Component("migrator")}
}

// Run ejecuta las migraciones pendientes. Cada archivo corre en su propia transacción.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(names)

	ran := 0
	for _, name := range names {
		if applied[name] || strings.Contains(name, "reset") {
			continue
		}
		body, err := fs.ReadFile(m.files, name)
		if err != nil {
			return fmt.Errorf("leer migración %s: %w", name, err)
		}
		if err := m.apply(ctx, name, string(body)); err != nil {
			return err
		}
		m.log.Info().Str("file", name).Msg("migración aplicada")
		ran++
	}
	m.log.Info().Int("applied", ran).Int("total", len(names)).Msg("esquema al día")
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, name, body string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migración %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("ejecutar migración %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1) ON CONFLICT DO NOTHING`, name); err != nil {
		return fmt.Errorf("registrar migración %s: %w", name, err)
	}
	return tx.Commit(ctx)
}
