package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtra el historial del libro. Campos vacíos no filtran.
type MovementFilter struct {
	VariantID  string
	LocationID string
	Limit      int
	Offset     int
}

// MovementRepository define el puerto de persistencia del libro de movimientos (solo agregar).
type MovementRepository interface {
	// Create agrega el movimiento; asigna ID si viene vacío y Sequence siempre.
	Create(ctx context.Context, movement *entity.Movement) error
}

// MovementReader consultas de solo lectura sobre el libro.
type MovementReader interface {
	// List devuelve movimientos del más reciente al más antiguo.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// SumByKey recalcula la suma de deltas por llave desde el libro completo.
	SumByKey(ctx context.Context) (map[entity.BalanceKey]int64, error)
}
