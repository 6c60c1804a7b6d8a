package inventory

import (
	"context"
	"time"
)

// StockReportUseCase genera el reporte imprimible de saldos (PDF).
type StockReportUseCase struct {
	engine    *LedgerEngine
	generator StockReportGenerator
	now       func() time.Time
}

// NewStockReportUseCase construye el caso de uso del reporte.
func NewStockReportUseCase(engine *LedgerEngine, generator StockReportGenerator) *StockReportUseCase {
	return &StockReportUseCase{
		engine:    engine,
		generator: generator,
		now:       time.Now,
	}
}

// Generate toma una instantánea de los saldos ordenados y la entrega al generador.
func (uc *StockReportUseCase) Generate(ctx context.Context) ([]byte, error) {
	levels, err := uc.engine.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStockReport(ctx, levels, uc.now())
}
