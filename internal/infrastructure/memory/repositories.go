package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.VariantRepository  = (*VariantRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.MovementReader     = (*MovementReader)(nil)
	_ repository.StockLevelReader   = (*LevelReader)(nil)
)

func nowUTC() time.Time { return time.Now().UTC() }

// VariantRepo variantes en memoria. El SKU es único.
type VariantRepo struct {
	s *Store
}

func (r *VariantRepo) Create(_ context.Context, variant *entity.Variant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, dup := r.s.skus[variant.UniqueSKU]; dup {
		return domain.ErrDuplicate
	}
	if _, dup := r.s.variants[variant.ID]; dup {
		return domain.ErrDuplicate
	}
	r.s.variants[variant.ID] = *variant
	r.s.skus[variant.UniqueSKU] = variant.ID
	return nil
}

func (r *VariantRepo) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VariantRepo) List(_ context.Context) ([]*entity.Variant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Variant, 0, len(r.s.variants))
	for _, v := range r.s.variants {
		v := v
		list = append(list, &v)
	}
	return list, nil
}

// LocationRepo ubicaciones en memoria. El nombre es único.
type LocationRepo struct {
	s *Store
}

func (r *LocationRepo) Create(_ context.Context, location *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, dup := r.s.locNames[location.Name]; dup {
		return domain.ErrDuplicate
	}
	if _, dup := r.s.locations[location.ID]; dup {
		return domain.ErrDuplicate
	}
	r.s.locations[location.ID] = *location
	r.s.locNames[location.Name] = location.ID
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		l := l
		list = append(list, &l)
	}
	return list, nil
}

// MovementReader consultas sobre el libro confirmado.
type MovementReader struct {
	s *Store
}

func (r *MovementReader) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	matched := make([]*entity.Movement, 0)
	for i := range r.s.movements {
		m := r.s.movements[i]
		if filter.VariantID != "" && m.VariantID != filter.VariantID {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		matched = append(matched, &m)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Sequence > matched[j].Sequence })

	if filter.Offset >= len(matched) {
		return []*entity.Movement{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *MovementReader) SumByKey(_ context.Context) (map[entity.BalanceKey]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sums := make(map[entity.BalanceKey]int64)
	for i := range r.s.movements {
		m := &r.s.movements[i]
		sums[m.Key()] += m.QuantityChange
	}
	return sums, nil
}

// LevelReader lecturas de saldos confirmados; nunca observa una tx a medio aplicar.
type LevelReader struct {
	s *Store
}

func (r *LevelReader) ListBalances(_ context.Context) ([]*entity.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Balance, 0, len(r.s.balances))
	for _, b := range r.s.balances {
		b := b
		list = append(list, &b)
	}
	return list, nil
}

func (r *LevelReader) ListLevels(_ context.Context) ([]*entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.StockLevel, 0, len(r.s.balances))
	for key, b := range r.s.balances {
		v, okV := r.s.variants[key.VariantID]
		l, okL := r.s.locations[key.LocationID]
		if !okV || !okL {
			continue
		}
		list = append(list, &entity.StockLevel{Variant: v, Location: l, Quantity: b.Quantity})
	}
	return list, nil
}
