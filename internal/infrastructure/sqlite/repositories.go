package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.VariantRepository  = (*VariantRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.MovementReader     = (*MovementRepo)(nil)
	_ repository.StockLevelReader   = (*LevelRepo)(nil)
)

func nowUTC() time.Time { return time.Now().UTC() }

// VariantRepo variantes sobre SQLite.
type VariantRepo struct {
	q querier
}

func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO variants (id, product, size, color, unique_sku, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Product, v.Size, v.Color, v.UniqueSKU, toMillis(v.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert variant", err)
	}
	return nil
}

func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	var v entity.Variant
	var created int64
	err := r.q.QueryRowContext(ctx, `
		SELECT id, product, size, color, unique_sku, created_at FROM variants WHERE id = ?`, id,
	).Scan(&v.ID, &v.Product, &v.Size, &v.Color, &v.UniqueSKU, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get variant", err)
	}
	v.CreatedAt = fromMillis(created)
	return &v, nil
}

func (r *VariantRepo) List(ctx context.Context) ([]*entity.Variant, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, product, size, color, unique_sku, created_at FROM variants`)
	if err != nil {
		return nil, classify("list variants", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		var created int64
		if err := rows.Scan(&v.ID, &v.Product, &v.Size, &v.Color, &v.UniqueSKU, &created); err != nil {
			return nil, classify("scan variant", err)
		}
		v.CreatedAt = fromMillis(created)
		list = append(list, &v)
	}
	return list, classify("list variants", rows.Err())
}

// LocationRepo ubicaciones sobre SQLite.
type LocationRepo struct {
	q querier
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO locations (id, name, created_at) VALUES (?, ?, ?)`,
		l.ID, l.Name, toMillis(l.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return classify("insert location", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var l entity.Location
	var created int64
	err := r.q.QueryRowContext(ctx, `SELECT id, name, created_at FROM locations WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get location", err)
	}
	l.CreatedAt = fromMillis(created)
	return &l, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, created_at FROM locations`)
	if err != nil {
		return nil, classify("list locations", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		var created int64
		if err := rows.Scan(&l.ID, &l.Name, &created); err != nil {
			return nil, classify("scan location", err)
		}
		l.CreatedAt = fromMillis(created)
		list = append(list, &l)
	}
	return list, classify("list locations", rows.Err())
}

// MovementRepo libro de movimientos (escritura dentro de tx, lectura sobre la conexión).
type MovementRepo struct {
	q querier
}

func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT sequence, id, variant_id, location_id, quantity_change, notes, created_at
		FROM movements WHERE 1 = 1`
	var args []any
	if filter.VariantID != "" {
		query += " AND variant_id = ?"
		args = append(args, filter.VariantID)
	}
	if filter.LocationID != "" {
		query += " AND location_id = ?"
		args = append(args, filter.LocationID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = -1 // sin límite en SQLite
	}
	query += " ORDER BY sequence DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var created int64
		if err := rows.Scan(&m.Sequence, &m.ID, &m.VariantID, &m.LocationID, &m.QuantityChange, &m.Notes, &created); err != nil {
			return nil, classify("scan movement", err)
		}
		m.CreatedAt = fromMillis(created)
		list = append(list, &m)
	}
	return list, classify("list movements", rows.Err())
}

func (r *MovementRepo) SumByKey(ctx context.Context) (map[entity.BalanceKey]int64, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT variant_id, location_id, SUM(quantity_change) FROM movements GROUP BY variant_id, location_id`)
	if err != nil {
		return nil, classify("sum movements", err)
	}
	defer rows.Close()
	sums := make(map[entity.BalanceKey]int64)
	for rows.Next() {
		var key entity.BalanceKey
		var sum int64
		if err := rows.Scan(&key.VariantID, &key.LocationID, &sum); err != nil {
			return nil, classify("scan sum", err)
		}
		sums[key] = sum
	}
	return sums, classify("sum movements", rows.Err())
}

// LevelRepo lecturas de saldos.
type LevelRepo struct {
	q querier
}

func (r *LevelRepo) ListBalances(ctx context.Context) ([]*entity.Balance, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT variant_id, location_id, quantity, updated_at FROM balances`)
	if err != nil {
		return nil, classify("list balances", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		var updated int64
		if err := rows.Scan(&b.VariantID, &b.LocationID, &b.Quantity, &updated); err != nil {
			return nil, classify("scan balance", err)
		}
		b.UpdatedAt = fromMillis(updated)
		list = append(list, &b)
	}
	return list, classify("list balances", rows.Err())
}

func (r *LevelRepo) ListLevels(ctx context.Context) ([]*entity.StockLevel, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT v.id, v.product, v.size, v.color, v.unique_sku, v.created_at,
		       l.id, l.name, l.created_at, b.quantity
		FROM balances b
		JOIN variants v ON v.id = b.variant_id
		JOIN locations l ON l.id = b.location_id`)
	if err != nil {
		return nil, classify("list stock levels", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		var vCreated, lCreated int64
		if err := rows.Scan(
			&s.Variant.ID, &s.Variant.Product, &s.Variant.Size, &s.Variant.Color, &s.Variant.UniqueSKU, &vCreated,
			&s.Location.ID, &s.Location.Name, &lCreated, &s.Quantity,
		); err != nil {
			return nil, classify("scan stock level", err)
		}
		s.Variant.CreatedAt = fromMillis(vCreated)
		s.Location.CreatedAt = fromMillis(lCreated)
		list = append(list, &s)
	}
	return list, classify("list stock levels", rows.Err())
}
