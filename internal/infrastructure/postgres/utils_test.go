package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres/migrations"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, true},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, true},
		{"conexión", &pgconn.PgError{Code: "08006"}, true},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"genérico", errors.New("sintaxis"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("op", tc.err)
			assert.Equal(t, tc.transient, domain.IsTransient(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestClassify_ErroresDeDominioPasanIntactos(t *testing.T) {
	conflict := &domain.ConflictError{VariantID: "v", LocationID: "l", Current: 1, Change: -2}
	assert.Same(t, conflict, classify("apply movement", conflict))

	verr := domain.NewValidationError("location", "no existe")
	assert.Same(t, verr, classify("apply movement", verr))

	assert.NoError(t, classify("op", nil))
	assert.ErrorIs(t, classify("op", fmt.Errorf("x: %w", context.Canceled)), context.Canceled)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestUpSection(t *testing.T) {
	sql := "-- +migrate Up\nCREATE TABLE a();\n-- +migrate Down\nDROP TABLE a;"
	assert.Equal(t, "\nCREATE TABLE a();\n", upSection(sql))
	assert.Equal(t, "SELECT 1", upSection("SELECT 1"))
}

func TestMigracionesEmbebidas(t *testing.T) {
	content, err := fs.ReadFile(migrations.FS, "001_ledger.sql")
	require.NoError(t, err)
	up := upSection(string(content))
	assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS balances")
	assert.Contains(t, up, "CHECK (quantity_change <> 0)")
	assert.NotContains(t, up, "DROP TABLE")
}
