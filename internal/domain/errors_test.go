package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestValidationError_IsErrInvalidInput(t *testing.T) {
	err := fmt.Errorf("envuelto: %w", domain.NewValidationError("quantity_change", "no puede ser cero"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrConflict)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"no puede ser cero"}, verr.Fields["quantity_change"])
}

func TestValidationError_OrNilSinCampos(t *testing.T) {
	verr := &domain.ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("location", "requerido")
	verr.Add("location", "otro")
	assert.Error(t, verr.OrNil())
	assert.Equal(t, "validación: location: requerido; otro", verr.Error())
}

func TestConflictError_EsStockInsuficiente(t *testing.T) {
	err := &domain.ConflictError{VariantID: "v", LocationID: "l", Current: 2, Change: -5}

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.False(t, domain.IsTransient(err))
}

func TestTransientIOError_UnwrapYIs(t *testing.T) {
	cause := errors.New("conexión rechazada")
	err := domain.NewTransientIOError("apply movement", cause)

	assert.True(t, domain.IsTransient(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "apply movement: conexión rechazada", err.Error())
}
