package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.MovementReader     = (*MovementRepo)(nil)
)

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un movimiento; la secuencia la asigna la BD (BIGSERIAL).
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, variant_id, location_id, quantity_change, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		movement.ID, movement.VariantID, movement.LocationID,
		movement.QuantityChange, movement.Notes, movement.CreatedAt,
	).Scan(&movement.Sequence)
	if err != nil {
		return classify("create movement", err)
	}
	return nil
}

// List historial filtrado, del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, sequence, variant_id, location_id, quantity_change, notes, created_at
		FROM movements WHERE true`
	var args []any
	pos := 1
	if filter.VariantID != "" {
		query += fmt.Sprintf(" AND variant_id = $%d", pos)
		args = append(args, filter.VariantID)
		pos++
	}
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	query += " ORDER BY sequence DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, filter.Limit)
		pos++
	}
	query += fmt.Sprintf(" OFFSET $%d", pos)
	args = append(args, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.Sequence, &m.VariantID, &m.LocationID,
			&m.QuantityChange, &m.Notes, &m.CreatedAt); err != nil {
			return nil, classify("scan movement", err)
		}
		list = append(list, &m)
	}
	return list, classify("list movements", rows.Err())
}

// SumByKey recalcula la suma de deltas por llave.
func (r *MovementRepo) SumByKey(ctx context.Context) (map[entity.BalanceKey]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT variant_id, location_id, SUM(quantity_change)::BIGINT
		FROM movements GROUP BY variant_id, location_id`)
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
