package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ListBalances devuelve una instantánea de los saldos con datos de variante y ubicación,
// ordenada por nombre de producto para estabilidad en pantalla.
func (e *LedgerEngine) ListBalances(ctx context.Context) ([]*entity.StockLevel, error) {
	levels, err := e.levels.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []*entity.StockLevel{}
	}
	sortStockLevels(levels)
	return levels, nil
}

// ListReferenceData devuelve variantes y ubicaciones para poblar los selectores.
func (e *LedgerEngine) ListReferenceData(ctx context.Context) ([]*entity.Variant, []*entity.Location, error) {
	variants, err := e.variantRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	locations, err := e.locationRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if variants == nil {
		variants = []*entity.Variant{}
	}
	if locations == nil {
		locations = []*entity.Location{}
	}
	sortVariants(variants)
	sortLocations(locations)
	return variants, locations, nil
}

// ListMovements devuelve el historial del libro, del más reciente al más antiguo.
func (e *LedgerEngine) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := e.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

// Discrepancy llave cuyo saldo materializado no coincide con la suma de su libro.
type Discrepancy struct {
	Key       entity.BalanceKey
	Balance   int64
	LedgerSum int64
}

// Audit recalcula la suma de deltas por llave y la compara con el almacén de saldos.
// Una lista vacía indica que el invariante se cumple para todas las llaves.
func (e *LedgerEngine) Audit(ctx context.Context) ([]Discrepancy, error) {
	sums, err := e.movements.SumByKey(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := e.levels.ListBalances(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[entity.BalanceKey]bool, len(balances))
	out := []Discrepancy{}
	for _, b := range balances {
		key := b.Key()
		seen[key] = true
		if sum := sums[key]; sum != b.Quantity {
			out = append(out, Discrepancy{Key: key, Balance: b.Quantity, LedgerSum: sum})
		}
	}
	// Movimientos sin fila de saldo
	for key, sum := range sums {
		if !seen[key] {
			out = append(out, Discrepancy{Key: key, LedgerSum: sum})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })

	if len(out) > 0 {
		e.log.Error().Int("discrepancies", len(out)).Msg("auditoría del libro: saldos inconsistentes")
	}
	return out, nil
}
