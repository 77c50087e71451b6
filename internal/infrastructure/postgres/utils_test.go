package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicegen-api/internal/infrastructure/postgres/migrations"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión cerrada")))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	p := nullIfEmpty("x")
	if assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
		assert.Equal(t, "x", derefStr(p))
	}
	assert.Equal(t, "", derefStr(nil))
}

func TestMigraciones_IndiceUnicoPorCuenta(t *testing.T) {
	raw, err := fs.ReadFile(migrations.FS, "00001_init.sql")
	require.NoError(t, err)
	sql := string(raw)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "ON invoices (owner_id, invoice_number)")
}
