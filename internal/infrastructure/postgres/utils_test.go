package postgres

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
)

func TestWrap_TraduceCodigosPostgres(t *testing.T) {
	dup := wrap("crear escáner", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, dup, domain.ErrDuplicate)
	assert.Contains(t, dup.Error(), "crear escáner")

	fk := wrap("crear material", &pgconn.PgError{Code: "23503"})
	assert.ErrorIs(t, fk, domain.ErrNotFound)

	other := errors.New("conexión cerrada")
	assert.ErrorIs(t, wrap("listar", other), other)
	assert.NoError(t, wrap("listar", nil))
}

func TestNoRows(t *testing.T) {
	assert.True(t, noRows(pgx.ErrNoRows))
	assert.True(t, noRows(wrap("leer", pgx.ErrNoRows)))
	assert.False(t, noRows(errors.New("otro")))
}

func TestMigraciones_Embebidas(t *testing.T) {
	sub, err := fs.Sub(migrationFS, "migrations")
	require.NoError(t, err)
	names, err := fs.Glob(sub, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := fs.ReadFile(sub, "0001_init.sql")
	require.NoError(t, err)
	sql := string(body)
	for _, table := range []string{"scan_events", "units", "bundles", "quality_checks", "rework_assignments", "unit_flow"} {
		assert.True(t, strings.Contains(sql, table), table)
	}
	assert.Contains(t, sql, "UNIQUE (scanner_id, unit_id)")
}
