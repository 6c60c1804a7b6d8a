package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/store"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestOpen_DriversLocales(t *testing.T) {
	cases := map[string]config.StoreConfig{
		"memory": {Driver: config.DriverMemory},
		"sqlite": {Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "ledger.db")},
	}
	for name, storeCfg := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			backend, err := store.Open(ctx, &config.Config{Store: storeCfg})
			require.NoError(t, err)
			defer backend.Close()
			assert.Equal(t, storeCfg.Driver, backend.Driver)

			catalog := backend.Catalog()
			variant, err := catalog.CreateVariant(ctx, dto.CreateVariantRequest{Product: "Camiseta", Size: "M", UniqueSKU: "CAM-M"})
			require.NoError(t, err)
			location, err := catalog.CreateLocation(ctx, dto.CreateLocationRequest{Name: "Bodega"})
			require.NoError(t, err)

			engine := backend.Engine(config.LedgerConfig{}, nil)
			res, err := engine.ApplyMovement(ctx, inventory.MovementInputDTO{
				VariantID: variant.ID, LocationID: location.ID, QuantityChange: 6,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(6), res.Balance.Quantity)
		})
	}
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}})
	assert.Error(t, err)
}
