package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.BalanceStore     = (*balanceStore)(nil)
	_ repository.StockLevelReader = (*LevelRepo)(nil)
)

// balanceStore lado de escritura de saldos; solo se construye dentro de TxRunner.Run.
type balanceStore struct {
	q Querier
}

func newBalanceStore(q Querier) *balanceStore {
	return &balanceStore{q: q}
}

// GetForUpdate crea la fila en 0 si no existe y la bloquea (SELECT FOR UPDATE) hasta el commit.
func (s *balanceStore) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	if _, err := s.q.Exec(ctx, `
		INSERT INTO balances (variant_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (variant_id, location_id) DO NOTHING`,
		key.VariantID, key.LocationID,
	); err != nil {
		return nil, classify("materialize balance", err)
	}
	var b entity.Balance
	err := s.q.QueryRow(ctx, `
		SELECT variant_id, location_id, quantity, updated_at
		FROM balances WHERE variant_id = $1 AND location_id = $2
		FOR UPDATE`,
		key.VariantID, key.LocationID,
	).Scan(&b.VariantID, &b.LocationID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		return nil, classify("get balance for update", err)
	}
	return &b, nil
}

// Increment suma delta en la BD (quantity = quantity + delta) y devuelve el saldo resultante.
func (s *balanceStore) Increment(ctx context.Context, key entity.BalanceKey, delta int64) (*entity.Balance, error) {
	var b entity.Balance
	err := s.q.QueryRow(ctx, `
		UPDATE balances SET quantity = quantity + $3, updated_at = now()
		WHERE variant_id = $1 AND location_id = $2
		RETURNING variant_id, location_id, quantity, updated_at`,
		key.VariantID, key.LocationID, delta,
	).Scan(&b.VariantID, &b.LocationID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("increment balance %s: fila no materializada", key)
		}
		return nil, classify("increment balance", err)
	}
	return &b, nil
}

// LevelRepo lecturas de saldos; ve solo transacciones confirmadas.
type LevelRepo struct {
	q Querier
}

// NewLevelRepository construye el lector de saldos.
func NewLevelRepository(q Querier) *LevelRepo {
	return &LevelRepo{q: q}
}

// ListBalances devuelve los saldos materializados.
func (r *LevelRepo) ListBalances(ctx context.Context) ([]*entity.Balance, error) {
	rows, err := r.q.Query(ctx, `SELECT variant_id, location_id, quantity, updated_at FROM balances`)
	if err != nil {
		return nil, classify("list balances", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.VariantID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, classify("scan balance", err)
		}
		list = append(list, &b)
	}
	return list, classify("list balances", rows.Err())
}

// ListLevels saldos unidos con variante y ubicación en una sola consulta (instantánea consistente).
func (r *LevelRepo) ListLevels(ctx context.Context) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.id, v.product, v.size, v.color, v.unique_sku, v.created_at,
		       l.id, l.name, l.created_at,
		       b.quantity
		FROM balances b
		JOIN variants v ON v.id = b.variant_id
		JOIN locations l ON l.id = b.location_id
		ORDER BY v.product`)
	if err != nil {
		return nil, classify("list stock levels", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(
			&s.Variant.ID, &s.Variant.Product, &s.Variant.Size, &s.Variant.Color, &s.Variant.UniqueSKU, &s.Variant.CreatedAt,
			&s.Location.ID, &s.Location.Name, &s.Location.CreatedAt,
			&s.Quantity,
		); err != nil {
			return nil, classify("scan stock level", err)
		}
		list = append(list, &s)
	}
	return list, classify("list stock levels", rows.Err())
}
