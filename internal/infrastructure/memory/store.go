// Package memory implementa el almacenamiento del libro en memoria: transacciones con
// escrituras en staging, bloqueo por llave y publicación atómica al hacer commit.
// Sirve para tests y para ejecutar la API sin base de datos (STORE_DRIVER=memory).
package memory

import (
	"sync"
	"sync/atomic"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Puntos de falla inyectables para simular caídas del almacenamiento a mitad de operación.
const (
	FailBalanceIncrement = "balance.increment"
	FailMovementCreate   = "movement.create"
	FailCommit           = "commit"
)

// Store estado en memoria. Lecturas y commits se sincronizan con mu; la sección crítica
// leer-calcular-escribir de cada llave se serializa con locks por llave.
type Store struct {
	mu        sync.RWMutex
	variants  map[string]entity.Variant
	skus      map[string]string
	locations map[string]entity.Location
	locNames  map[string]string
	balances  map[entity.BalanceKey]entity.Balance
	movements []entity.Movement

	seq   atomic.Int64
	locks *keyLocks

	fpMu       sync.Mutex
	failpoints map[string]error
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		variants:   map[string]entity.Variant{},
		skus:       map[string]string{},
		locations:  map[string]entity.Location{},
		locNames:   map[string]string{},
		balances:   map[entity.BalanceKey]entity.Balance{},
		locks:      newKeyLocks(),
		failpoints: map[string]error{},
	}
}

// SetFailpoint hace que la operación name falle con err (como TransientIOError).
// err nil desactiva el punto de falla.
func (s *Store) SetFailpoint(name string, err error) {
	s.fpMu.Lock()
	defer s.fpMu.Unlock()
	if err == nil {
		delete(s.failpoints, name)
		return
	}
	s.failpoints[name] = err
}

func (s *Store) fail(name string) error {
	s.fpMu.Lock()
	defer s.fpMu.Unlock()
	if err, ok := s.failpoints[name]; ok {
		return domain.NewTransientIOError(name, err)
	}
	return nil
}

// Variants repositorio de variantes.
func (s *Store) Variants() *VariantRepo { return &VariantRepo{s: s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Movements lector del libro.
func (s *Store) Movements() *MovementReader { return &MovementReader{s: s} }

// Levels lector de saldos.
func (s *Store) Levels() *LevelReader { return &LevelReader{s: s} }

// TxRunner runner transaccional; única vía de escritura de saldos y movimientos.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }
