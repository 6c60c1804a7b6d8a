package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones (dato de referencia).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	// GetByID devuelve nil, nil si la ubicación no existe.
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
}
