package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine  *inventory.LedgerEngine
	Catalog *usecase.CatalogUseCase
	Report  *inventory.StockReportUseCase
	Logger  *logger.Logger
}

// Router registra las rutas de la API.
func Router(app fiber.Router, deps RouterDeps) {
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Report, deps.Logger)
	referenceHandler := NewReferenceHandler(deps.Engine, deps.Catalog, deps.Logger)

	// Saldos (solo lectura)
	levels := app.Group("/stock-levels")
	levels.Get("/", inventoryHandler.ListStockLevels)
	levels.Get("/audit", inventoryHandler.Audit)
	levels.Get("/report.pdf", inventoryHandler.StockReport)

	// Movimientos
	movements := app.Group("/stock-movements")
	movements.Post("/", inventoryHandler.CreateMovement)
	movements.Get("/", inventoryHandler.ListMovements)

	// Datos de referencia
	app.Get("/variants", referenceHandler.ListVariants)
	app.Post("/variants", referenceHandler.CreateVariant)
	app.Get("/locations", referenceHandler.ListLocations)
	app.Post("/locations", referenceHandler.CreateLocation)
}
