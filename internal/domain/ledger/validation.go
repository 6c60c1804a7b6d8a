// Package ledger contiene las reglas puras del libro de movimientos (servicio de dominio).
// No tiene efectos secundarios: se usa como guarda antes de la aplicación atómica.
package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Nombres de campo expuestos en los errores de validación (coinciden con el contrato HTTP).
const (
	FieldVariant        = "product_variant"
	FieldLocation       = "location"
	FieldQuantityChange = "quantity_change"
	FieldNotes          = "notes"
)

// MaxNotesLength límite de la nota libre de un movimiento.
const MaxNotesLength = 500

// Draft es un movimiento aún no aceptado.
type Draft struct {
	VariantID      string
	LocationID     string
	QuantityChange int64
	Notes          string
}

// ParseQuantityChange interpreta el delta recibido como texto. Debe ser un entero distinto de cero.
func ParseQuantityChange(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError(FieldQuantityChange, "este campo es requerido")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(FieldQuantityChange, "debe ser un número entero")
	}
	if n == 0 {
		return 0, domain.NewValidationError(FieldQuantityChange, "no puede ser cero")
	}
	return n, nil
}

// ValidateDraft valida la forma del movimiento sin consultar el almacenamiento.
func ValidateDraft(d Draft) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(d.VariantID) == "" {
		verr.Add(FieldVariant, "este campo es requerido")
	}
	if strings.TrimSpace(d.LocationID) == "" {
		verr.Add(FieldLocation, "este campo es requerido")
	}
	if d.QuantityChange == 0 {
		verr.Add(FieldQuantityChange, "no puede ser cero")
	}
	if len([]rune(d.Notes)) > MaxNotesLength {
		verr.Add(FieldNotes, "excede la longitud máxima")
	}
	return verr.OrNil()
}

// ValidateReferences comprueba que la variante y la ubicación consultadas existan.
// variant o location nil significa que no se encontró.
func ValidateReferences(d Draft, variant *entity.Variant, location *entity.Location) error {
	verr := &domain.ValidationError{}
	if variant == nil {
		verr.Add(FieldVariant, "la variante "+strconv.Quote(d.VariantID)+" no existe")
	}
	if location == nil {
		verr.Add(FieldLocation, "la ubicación "+strconv.Quote(d.LocationID)+" no existe")
	}
	return verr.OrNil()
}

// NextQuantity calcula el saldo resultante y aplica la regla de saldos negativos.
// Un resultado fuera del rango de int64 es un error de validación de quantity_change.
func NextQuantity(current *entity.Balance, change int64, allowNegative bool) (int64, error) {
	if Overflows(current.Quantity, change) {
		return 0, domain.NewValidationError(FieldQuantityChange, "el saldo resultante excede el rango permitido")
	}
	next := current.Quantity + change
	if next < 0 && !allowNegative {
		return 0, &domain.ConflictError{
			VariantID:  current.VariantID,
			LocationID: current.LocationID,
			Current:    current.Quantity,
			Change:     change,
		}
	}
	return next, nil
}

// Overflows indica si current+change se sale del rango de int64.
func Overflows(current, change int64) bool {
	return (change > 0 && current > math.MaxInt64-change) ||
		(change < 0 && current < math.MinInt64-change)
}
