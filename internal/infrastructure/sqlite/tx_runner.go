package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner            = (*TxRunner)(nil)
	_ repository.BalanceStore       = (*balanceStore)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción SQLite (IMMEDIATE).
type TxRunner struct {
	db *sql.DB
}

// Run inicia la transacción, ejecuta fn con repos atados a ella y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balances repository.BalanceStore,
) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&MovementRepo{q: tx}, &balanceStore{q: tx}); err != nil {
		return classify("apply movement", err)
	}
	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// balanceStore lado de escritura de saldos, atado a la tx.
type balanceStore struct {
	q querier
}

func (s *balanceStore) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	if _, err := s.q.ExecContext(ctx, `
		INSERT OR IGNORE INTO balances (variant_id, location_id, quantity, updated_at)
		VALUES (?, ?, 0, ?)`,
		key.VariantID, key.LocationID, toMillis(nowUTC()),
	); err != nil {
		return nil, classify("materialize balance", err)
	}
	return scanBalance(s.q.QueryRowContext(ctx, `
		SELECT variant_id, location_id, quantity, updated_at
		FROM balances WHERE variant_id = ? AND location_id = ?`,
		key.VariantID, key.LocationID,
	), "get balance for update")
}

func (s *balanceStore) Increment(ctx context.Context, key entity.BalanceKey, delta int64) (*entity.Balance, error) {
	b, err := scanBalance(s.q.QueryRowContext(ctx, `
		UPDATE balances SET quantity = quantity + ?, updated_at = ?
		WHERE variant_id = ? AND location_id = ?
		RETURNING variant_id, location_id, quantity, updated_at`,
		delta, toMillis(nowUTC()), key.VariantID, key.LocationID,
	), "increment balance")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("increment balance %s: fila no materializada", key)
	}
	return b, err
}

func scanBalance(row *sql.Row, op string) (*entity.Balance, error) {
	var b entity.Balance
	var updated int64
	if err := row.Scan(&b.VariantID, &b.LocationID, &b.Quantity, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, classify(op, err)
	}
	b.UpdatedAt = fromMillis(updated)
	return &b, nil
}

// Create agrega el movimiento; la secuencia es el rowid AUTOINCREMENT.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = nowUTC()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO movements (id, variant_id, location_id, quantity_change, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.VariantID, movement.LocationID,
		movement.QuantityChange, movement.Notes, toMillis(movement.CreatedAt),
	)
	if err != nil {
		return classify("create movement", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return classify("movement sequence", err)
	}
	movement.Sequence = seq
	return nil
}
