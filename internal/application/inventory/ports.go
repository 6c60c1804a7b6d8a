package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento, pasando
// repositorios atados a esa tx. Si fn devuelve error se revierten el saldo y el movimiento.
// Es la única vía de escritura sobre el almacén de saldos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balances repository.BalanceStore,
	) error) error
}

// StockReportGenerator genera la representación imprimible de los saldos.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, levels []*entity.StockLevel, generatedAt time.Time) ([]byte, error)
}
