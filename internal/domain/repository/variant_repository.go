package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// VariantRepository define el puerto de persistencia para variantes (dato de referencia).
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	// GetByID devuelve nil, nil si la variante no existe.
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	List(ctx context.Context) ([]*entity.Variant, error)
}
