package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceStore es el lado de escritura del almacén de saldos. Solo existe atado a una
// transacción del TxRunner, de modo que únicamente el motor del libro puede mutar saldos.
type BalanceStore interface {
	// GetForUpdate obtiene el saldo (creándolo en 0 si no existe) y bloquea la llave
	// hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error)
	// Increment suma delta al saldo bloqueado y devuelve el valor resultante.
	Increment(ctx context.Context, key entity.BalanceKey, delta int64) (*entity.Balance, error)
}

// StockLevelReader consultas de solo lectura sobre los saldos materializados.
type StockLevelReader interface {
	ListBalances(ctx context.Context) ([]*entity.Balance, error)
	// ListLevels devuelve los saldos unidos con variante y ubicación, sin orden garantizado.
	ListLevels(ctx context.Context) ([]*entity.StockLevel, error)
}
