// Package store elige el backend de persistencia según config.StoreConfig
// y expone los puertos que consume el motor del libro.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Backend puertos de un almacenamiento abierto.
type Backend struct {
	Driver    string
	Variants  repository.VariantRepository
	Locations repository.LocationRepository
	Movements repository.MovementReader
	Levels    repository.StockLevelReader
	TxRunner  inventory.TxRunner

	close func()
}

// Close libera conexiones; es seguro llamarlo más de una vez.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
		b.close = nil
	}
}

// Engine construye el motor del libro sobre este backend.
func (b *Backend) Engine(cfg config.LedgerConfig, log *logger.Logger) *inventory.LedgerEngine {
	return inventory.NewLedgerEngine(b.TxRunner, b.Variants, b.Locations, b.Levels, b.Movements,
		inventory.EngineConfig{AllowNegative: cfg.AllowNegative}, log)
}

// Catalog construye el caso de uso de datos de referencia.
func (b *Backend) Catalog() *usecase.CatalogUseCase {
	return usecase.NewCatalogUseCase(b.Variants, b.Locations)
}

// Open abre el backend configurado (postgres, sqlite o memory) y aplica migraciones.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Backend{
			Driver:    config.DriverPostgres,
			Variants:  postgres.NewVariantRepository(pool),
			Locations: postgres.NewLocationRepository(pool),
			Movements: postgres.NewMovementRepository(pool),
			Levels:    postgres.NewLevelRepository(pool),
			TxRunner:  postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("abrir SQLite %s: %w", cfg.Store.SQLitePath, err)
		}
		return &Backend{
			Driver:    config.DriverSQLite,
			Variants:  s.Variants(),
			Locations: s.Locations(),
			Movements: s.Movements(),
			Levels:    s.Levels(),
			TxRunner:  s.TxRunner(),
			close:     func() { _ = s.Close() },
		}, nil

	case config.DriverMemory:
		s := memory.NewStore()
		return &Backend{
			Driver:    config.DriverMemory,
			Variants:  s.Variants(),
			Locations: s.Locations(),
			Movements: s.Movements(),
			Levels:    s.Levels(),
			TxRunner:  s.TxRunner(),
		}, nil

	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Store.Driver)
	}
}
