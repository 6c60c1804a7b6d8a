package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnavailable       = errors.New("almacenamiento no disponible")
)

// ValidationError entrada mal formada o fuera de rango, con detalle por campo.
// No se reintenta; se devuelve al llamador tal cual.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError crea un error con un único mensaje para field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Add agrega un mensaje para field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Merge agrega todos los mensajes de other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}

// HasErrors indica si hay al menos un campo con error.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil devuelve nil si no hay errores (evita el nil tipado en interfaces error).
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validación: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConflictError el movimiento violaría una regla de negocio (p. ej. saldo negativo no permitido).
type ConflictError struct {
	VariantID  string
	LocationID string
	Current    int64
	Change     int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s@%s: actual %d, cambio %d",
		e.VariantID, e.LocationID, e.Current, e.Change)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || target == ErrInsufficientStock
}

// TransientIOError red o almacenamiento no disponible; es seguro reintentar con backoff.
type TransientIOError struct {
	Op  string
	Err error
}

// NewTransientIOError envuelve err indicando la operación que falló.
func NewTransientIOError(op string, err error) *TransientIOError {
	return &TransientIOError{Op: op, Err: err}
}

func (e *TransientIOError) Error() string {
	if e.Err == nil {
		return e.Op + ": no disponible"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransientIOError) Unwrap() error { return e.Err }

func (e *TransientIOError) Is(target error) bool {
	return target == ErrUnavailable
}

// IsTransient indica si err (o algo que envuelve) es reintentable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
