package sqlite

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id TEXT);\n", upSection(content))
	assert.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}

func TestClassify_ErroresDeDominioIntactos(t *testing.T) {
	conflict := &domain.ConflictError{VariantID: "v", LocationID: "l"}
	assert.Same(t, conflict, classify("op", conflict))
	assert.Nil(t, classify("op", nil))

	err := classify("list variants", errors.New("boom"))
	assert.EqualError(t, err, "list variants: boom")
	assert.False(t, domain.IsTransient(err))

	wrapped := classify("commit", fmt.Errorf("x: %w", domain.NewTransientIOError("inner", errors.New("busy"))))
	assert.True(t, domain.IsTransient(wrapped))
}

func TestMillisIdaYVuelta(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 15, 123_000_000, time.UTC)
	assert.Equal(t, ts, fromMillis(toMillis(ts)))
}
