package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

var errKeyNotLocked = errors.New("memory: saldo no bloqueado en la transacción (falta GetForUpdate)")

// TxRunner ejecuta callbacks dentro de una transacción en memoria.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con repos atados a la tx. Si fn falla no se publica nada; si termina bien,
// saldos y movimientos se publican juntos bajo el lock del store. Los locks por llave se
// liberan siempre al final.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balances repository.BalanceStore,
) error) error {
	t := &tx{
		s:        r.s,
		held:     map[entity.BalanceKey]bool{},
		balances: map[entity.BalanceKey]entity.Balance{},
	}
	defer t.releaseAll()

	if err := fn(t.movementRepo(), t.balanceStore()); err != nil {
		return err
	}
	return t.commit()
}

type tx struct {
	s         *Store
	held      map[entity.BalanceKey]bool
	balances  map[entity.BalanceKey]entity.Balance
	movements []entity.Movement
}

func (t *tx) movementRepo() *txMovementRepo { return &txMovementRepo{t: t} }
func (t *tx) balanceStore() *txBalanceStore { return &txBalanceStore{t: t} }

func (t *tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.fail(FailCommit); err != nil {
		return err
	}
	for key, b := range t.balances {
		t.s.balances[key] = b
	}
	t.s.movements = append(t.s.movements, t.movements...)
	return nil
}

func (t *tx) releaseAll() {
	for key := range t.held {
		t.s.locks.unlock(key)
	}
	t.held = nil
}

// txBalanceStore implementa repository.BalanceStore sobre la tx.
type txBalanceStore struct {
	t *tx
}

func (b *txBalanceStore) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	t := b.t
	if !t.held[key] {
		if err := t.s.locks.lock(ctx, key); err != nil {
			return nil, err
		}
		t.held[key] = true
	}
	if staged, ok := t.balances[key]; ok {
		return &staged, nil
	}
	t.s.mu.RLock()
	current, ok := t.s.balances[key]
	t.s.mu.RUnlock()
	if !ok {
		current = entity.Balance{VariantID: key.VariantID, LocationID: key.LocationID, Quantity: 0}
	}
	t.balances[key] = current
	return &current, nil
}

func (b *txBalanceStore) Increment(_ context.Context, key entity.BalanceKey, delta int64) (*entity.Balance, error) {
	t := b.t
	if !t.held[key] {
		return nil, errKeyNotLocked
	}
	if err := t.s.fail(FailBalanceIncrement); err != nil {
		return nil, err
	}
	bal := t.balances[key]
	if ledger.Overflows(bal.Quantity, delta) {
		return nil, domain.NewValidationError(ledger.FieldQuantityChange, "el saldo resultante excede el rango permitido")
	}
	bal.Quantity += delta
	bal.UpdatedAt = nowUTC()
	t.balances[key] = bal
	out := bal
	return &out, nil
}

// txMovementRepo implementa repository.MovementRepository sobre la tx.
type txMovementRepo struct {
	t *tx
}

func (m *txMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if err := m.t.s.fail(FailMovementCreate); err != nil {
		return err
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = nowUTC()
	}
	movement.Sequence = m.t.s.seq.Add(1)
	m.t.movements = append(m.t.movements, *movement)
	return nil
}
