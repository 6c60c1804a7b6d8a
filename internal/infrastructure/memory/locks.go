package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// keyLocks exclusión mutua por llave de saldo. Llaves distintas no se bloquean entre sí.
// Las entradas se eliminan cuando nadie las usa ni las espera.
type keyLocks struct {
	mu    sync.Mutex
	locks map[entity.BalanceKey]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[entity.BalanceKey]*keyLock)}
}

// lock espera la llave o la cancelación de ctx.
func (l *keyLocks) lock(ctx context.Context, key entity.BalanceKey) error {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, kl)
		return ctx.Err()
	}
}

func (l *keyLocks) unlock(key entity.BalanceKey) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-kl.sem
	l.release(key, kl)
}

func (l *keyLocks) release(key entity.BalanceKey, kl *keyLock) {
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// size número de llaves con lock vivo (tests).
func (l *keyLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
