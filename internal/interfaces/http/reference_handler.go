package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ReferenceHandler datos de referencia: variantes y ubicaciones.
type ReferenceHandler struct {
	engine  *inventory.LedgerEngine
	catalog *usecase.CatalogUseCase
	log     *logger.Logger
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(engine *inventory.LedgerEngine, catalog *usecase.CatalogUseCase, log *logger.Logger) *ReferenceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ReferenceHandler{engine: engine, catalog: catalog, log: log}
}

// ListVariants godoc
// @Summary      Listar variantes
// @Tags         reference
// @Produce      json
// @Success      200  {array}   dto.VariantResponse
// @Router       /variants [get]
func (h *ReferenceHandler) ListVariants(c *fiber.Ctx) error {
	variants, _, err := h.engine.ListReferenceData(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, dto.FromVariant(v))
	}
	return c.JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         reference
// @Produce      json
// @Success      200  {array}   dto.LocationResponse
// @Router       /locations [get]
func (h *ReferenceHandler) ListLocations(c *fiber.Ctx) error {
	_, locations, err := h.engine.ListReferenceData(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.FromLocation(l))
	}
	return c.JSON(out)
}

// CreateVariant godoc
// @Summary      Registrar variante
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVariantRequest  true  "product, size, color, unique_sku"
// @Success      201   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /variants [post]
func (h *ReferenceHandler) CreateVariant(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, "")
	}
	out, err := h.catalog.CreateVariant(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateLocation godoc
// @Summary      Registrar ubicación
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "name"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /locations [post]
func (h *ReferenceHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, err, "")
	}
	out, err := h.catalog.CreateLocation(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
