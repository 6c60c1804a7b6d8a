package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// InventoryHandler maneja saldos y movimientos del libro de inventario.
type InventoryHandler struct {
	engine *inventory.LedgerEngine
	report *inventory.StockReportUseCase
	log    *logger.Logger
}

// NewInventoryHandler construye el handler. report puede ser nil (ruta deshabilitada).
func NewInventoryHandler(engine *inventory.LedgerEngine, report *inventory.StockReportUseCase, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{engine: engine, report: report, log: log}
}

// ListStockLevels godoc
// @Summary      Listar saldos por variante y ubicación
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /stock-levels [get]
func (h *InventoryHandler) ListStockLevels(c *fiber.Ctx) error {
	levels, err := h.engine.ListBalances(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.FromStockLevel(l))
	}
	return c.JSON(out)
}

// CreateMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  quantity_change positivo es entrada y negativo salida; cero no se admite.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_variant, location, quantity_change, notes"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /stock-movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, ledger.FieldQuantityChange)
	}
	res, err := h.engine.ApplyMovementFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	balance := res.Balance.Quantity
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(res.Movement, &balance))
}

// ListMovements godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         stock
// @Produce      json
// @Param        product_variant  query  string  false  "Filtrar por variante"
// @Param        location         query  string  false  "Filtrar por ubicación"
// @Param        limit            query  int     false  "Máximo de filas (por defecto 50, tope 500)"
// @Param        offset           query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /stock-movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()

	movements, err := h.engine.ListMovements(c.UserContext(), repository.MovementFilter{
		VariantID:  c.Query("product_variant"),
		LocationID: c.Query("location"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.FromMovement(m, nil))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: page})
}

// Audit godoc
// @Summary      Verificar que cada saldo sea la suma de sus movimientos
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.AuditResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /stock-levels/audit [get]
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	discrepancies, err := h.engine.Audit(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.AuditResponse{
		Consistent:    len(discrepancies) == 0,
		Discrepancies: make([]dto.DiscrepancyResponse, 0, len(discrepancies)),
	}
	for _, d := range discrepancies {
		out.Discrepancies = append(out.Discrepancies, dto.DiscrepancyResponse{
			ProductVariant: d.Key.VariantID,
			Location:       d.Key.LocationID,
			Balance:        d.Balance,
			LedgerSum:      d.LedgerSum,
		})
	}
	return c.JSON(out)
}

// StockReport godoc
// @Summary      Reporte de existencias en PDF
// @Tags         stock
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /stock-levels/report.pdf [get]
func (h *InventoryHandler) StockReport(c *fiber.Ctx) error {
	if h.report == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: "reporte no disponible"})
	}
	pdf, err := h.report.Generate(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="existencias.pdf"`)
	return c.Send(pdf)
}
