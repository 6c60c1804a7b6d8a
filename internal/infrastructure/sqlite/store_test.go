package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
)

func openTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.Variants().Create(ctx, &entity.Variant{ID: "variantA", Product: "Camiseta", Size: "M", Color: "Rojo", UniqueSKU: "CAM-M-R", CreatedAt: now}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "loc1", Name: "Bodega Central", CreatedAt: now}))
	return store, path
}

func newEngine(store *sqlite.Store, cfg inventory.EngineConfig) *inventory.LedgerEngine {
	return inventory.NewLedgerEngine(store.TxRunner(), store.Variants(), store.Locations(), store.Levels(), store.Movements(), cfg, nil)
}

func TestOpen_RutaVacia(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestStore_EscenarioEntradaYSalida(t *testing.T) {
	store, _ := openTestStore(t)
	engine := newEngine(store, inventory.EngineConfig{})
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, inventory.MovementInputDTO{VariantID: "variantA", LocationID: "loc1", QuantityChange: 10})
	require.NoError(t, err)
	res, err := engine.ApplyMovement(ctx, inventory.MovementInputDTO{VariantID: "variantA", LocationID: "loc1", QuantityChange: -3, Notes: "venta"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Balance.Quantity)
	assert.Equal(t, int64(2), res.Movement.Sequence)

	levels, err := engine.ListBalances(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "Camiseta", levels[0].Variant.Product)
	assert.Equal(t, "Bodega Central", levels[0].Location.Name)
	assert.Equal(t, int64(7), levels[0].Quantity)

	movs, err := engine.ListMovements(ctx, repository.MovementFilter{VariantID: "variantA"})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, int64(-3), movs[0].QuantityChange, "más reciente primero")
	assert.Equal(t, "venta", movs[0].Notes)
}

func TestStore_ConflictoNoDejaEfectos(t *testing.T) {
	store, _ := openTestStore(t)
	engine := newEngine(store, inventory.EngineConfig{})
	ctx := context.Background()

	_, err := engine.ApplyMovement(ctx, inventory.MovementInputDTO{VariantID: "variantA", LocationID: "loc1", QuantityChange: -1})
	require.ErrorIs(t, err, domain.ErrConflict)

	levels, err := engine.ListBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, levels, "el rollback descarta el saldo materializado")
	movs, err := engine.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestStore_ConcurrenciaMismaClave(t *testing.T) {
	store, _ := openTestStore(t)
	engine := newEngine(store, inventory.EngineConfig{AllowNegative: true})
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	var expected int64
	errs := make(chan error, workers)
	for i := 1; i <= workers; i++ {
		delta := int64(i)
		if i%2 == 0 {
			delta = -delta
		}
		expected += delta
		wg.Add(1)
		go func(delta int64) {
			defer wg.Done()
			_, err := engine.ApplyMovement(ctx, inventory.MovementInputDTO{VariantID: "variantA", LocationID: "loc1", QuantityChange: delta})
			errs <- err
		}(delta)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	levels, err := engine.ListBalances(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, expected, levels[0].Quantity)

	discrepancies, err := engine.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}

func TestStore_DuplicadosYReapertura(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	err := store.Variants().Create(ctx, &entity.Variant{ID: "otra", Product: "Camiseta", UniqueSKU: "CAM-M-R", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = store.Locations().Create(ctx, &entity.Location{ID: "loc9", Name: "Bodega Central", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	missing, err := store.Variants().GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Close())
	reopened, err := sqlite.Open(path)
	require.NoError(t, err, "las migraciones aplicadas no se repiten")
	defer reopened.Close()

	variants, err := reopened.Variants().List(ctx)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "CAM-M-R", variants[0].UniqueSKU)
}
