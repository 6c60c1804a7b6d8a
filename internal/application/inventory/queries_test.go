package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func TestListBalances_OrdenadoPorProductoEIdempotente(t *testing.T) {
	f := newFixture(t, inventory.EngineConfig{})
	f.apply(t, "variantA", "loc1", 5)
	f.apply(t, "variantB", "loc1", 2)
	f.apply(t, "variantA", "loc2", 1)

	first, err := f.engine.ListBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "Abrigo", first[0].Variant.Product)
	assert.Equal(t, "Camiseta", first[1].Variant.Product)
	assert.Equal(t, "Almacén Norte", first[1].Location.Name, "a igual producto se ordena por ubicación")
	assert.Equal(t, "Bodega Central", first[2].Location.Name)

	second, err := f.engine.ListBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second, "sin escrituras intermedias las lecturas son idénticas")
}

func TestListBalances_VacioNoEsNil(t *testing.T) {
	f := newFixture(t, inventory.EngineConfig{})
	levels, err := f.engine.ListBalances(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, levels)
	assert.Empty(t, levels)
}

func TestListReferenceData(t *testing.T) {
	f := newFixture(t, inventory.EngineConfig{})
	require.NoError(t, f.store.Variants().Create(context.Background(), &entity.Variant{ID: "v3", Product: "árbol decorativo", UniqueSKU: "ARB"}))

	variants, locations, err := f.engine.ListReferenceData(context.Background())
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.Equal(t, []string{"Abrigo", "árbol decorativo", "Camiseta"},
		[]string{variants[0].Product, variants[1].Product, variants[2].Product},
		"el orden usa collation en español: la tilde no manda al final")
	require.Len(t, locations, 2)
	assert.Equal(t, "Almacén Norte", locations[0].Name)
}

func TestListMovements_FiltroYOrden(t *testing.T) {
	f := newFixture(t, inventory.EngineConfig{})
	f.apply(t, "variantA", "loc1", 5)
	f.apply(t, "variantB", "loc1", 2)
	f.apply(t, "variantA", "loc1", -1)

	movs, err := f.engine.ListMovements(context.Background(), repository.MovementFilter{VariantID: "variantA"})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, int64(-1), movs[0].QuantityChange)
	assert.Equal(t, int64(5), movs[1].QuantityChange)

	page, err := f.engine.ListMovements(context.Background(), repository.MovementFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "variantB", page[0].VariantID)
}

func TestAudit_SumaDelLibroIgualAlSaldo(t *testing.T) {
	f := newFixture(t, inventory.EngineConfig{})
	f.apply(t, "variantA", "loc1", 10)
	f.apply(t, "variantA", "loc1", -3)
	f.apply(t, "variantB", "loc2", 4)

	discrepancies, err := f.engine.Audit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, discrepancies)
}
