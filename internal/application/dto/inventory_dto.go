package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateMovementRequest body para POST /stock-movements.
// quantity_change se recibe como número JSON sin interpretar para poder rechazar decimales.
type CreateMovementRequest struct {
	ProductVariant string      `json:"product_variant"`
	Location       string      `json:"location"`
	QuantityChange json.Number `json:"quantity_change"`
	Notes          string      `json:"notes"`
}

// MovementResponse movimiento creado junto con el saldo resultante.
type MovementResponse struct {
	ID             string    `json:"id"`
	Sequence       int64     `json:"sequence"`
	ProductVariant string    `json:"product_variant"`
	Location       string    `json:"location"`
	QuantityChange int64     `json:"quantity_change"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	Balance        *int64    `json:"balance,omitempty"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageRequest        `json:"page"`
}

// VariantResponse salida de GET /variants.
type VariantResponse struct {
	ID        string `json:"id"`
	Product   string `json:"product"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	UniqueSKU string `json:"unique_sku"`
}

// LocationResponse salida de GET /locations.
type LocationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateVariantRequest entrada para registrar una variante.
type CreateVariantRequest struct {
	Product   string `json:"product" yaml:"product"`
	Size      string `json:"size" yaml:"size"`
	Color     string `json:"color" yaml:"color"`
	UniqueSKU string `json:"unique_sku" yaml:"unique_sku"`
}

// CreateLocationRequest entrada para registrar una ubicación.
type CreateLocationRequest struct {
	Name string `json:"name" yaml:"name"`
}

// StockLevelResponse una fila de GET /stock-levels.
type StockLevelResponse struct {
	Variant  VariantResponse  `json:"variant"`
	Location LocationResponse `json:"location"`
	Quantity int64            `json:"quantity"`
}

// DiscrepancyResponse diferencia entre saldo materializado y suma del libro.
type DiscrepancyResponse struct {
	ProductVariant string `json:"product_variant"`
	Location       string `json:"location"`
	Balance        int64  `json:"balance"`
	LedgerSum      int64  `json:"ledger_sum"`
}

// AuditResponse resultado de GET /stock-levels/audit.
type AuditResponse struct {
	Consistent    bool                  `json:"consistent"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// FromVariant convierte la entidad a su representación HTTP.
func FromVariant(v *entity.Variant) VariantResponse {
	return VariantResponse{ID: v.ID, Product: v.Product, Size: v.Size, Color: v.Color, UniqueSKU: v.UniqueSKU}
}

// FromLocation convierte la entidad a su representación HTTP.
func FromLocation(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name}
}

// FromMovement convierte el movimiento; balance puede ser nil en listados.
func FromMovement(m *entity.Movement, balance *int64) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		Sequence:       m.Sequence,
		ProductVariant: m.VariantID,
		Location:       m.LocationID,
		QuantityChange: m.QuantityChange,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		Balance:        balance,
	}
}

// FromStockLevel convierte un saldo con datos de presentación.
func FromStockLevel(l *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		Variant:  FromVariant(&l.Variant),
		Location: FromLocation(&l.Location),
		Quantity: l.Quantity,
	}
}
