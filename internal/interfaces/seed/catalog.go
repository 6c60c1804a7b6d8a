// Package seed carga un catálogo YAML de variantes, ubicaciones y stock inicial.
// La carga es idempotente: lo que ya existe se omite.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Catalog contenido del archivo YAML.
type Catalog struct {
	Variants     []dto.CreateVariantRequest  `yaml:"variants"`
	Locations    []dto.CreateLocationRequest `yaml:"locations"`
	OpeningStock []OpeningStock              `yaml:"opening_stock"`
}

// OpeningStock saldo inicial de una variante (por SKU) en una ubicación (por nombre).
type OpeningStock struct {
	SKU      string `yaml:"sku"`
	Location string `yaml:"location"`
	Quantity int64  `yaml:"quantity"`
	Notes    string `yaml:"notes"`
}

// Result conteo de lo creado y lo omitido.
type Result struct {
	VariantsCreated  int
	LocationsCreated int
	MovementsApplied int
	Skipped          int
}

// LoadCatalog lee y parsea el catálogo; campos desconocidos son error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parsea el YAML y valida referencias internas del stock inicial.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsear YAML: %w", err)
	}
	if err := validateCatalog(&c); err != nil {
		return nil, fmt.Errorf("catálogo inválido: %w", err)
	}
	return &c, nil
}

func validateCatalog(c *Catalog) error {
	skus := make(map[string]bool, len(c.Variants))
	for i, v := range c.Variants {
		sku := strings.TrimSpace(v.UniqueSKU)
		if sku == "" {
			return fmt.Errorf("variants[%d]: unique_sku es requerido", i)
		}
		if skus[sku] {
			return fmt.Errorf("variants[%d]: SKU %q repetido", i, sku)
		}
		skus[sku] = true
	}
	names := make(map[string]bool, len(c.Locations))
	for _, l := range c.Locations {
		names[strings.TrimSpace(l.Name)] = true
	}
	for i, o := range c.OpeningStock {
		if !skus[o.SKU] {
			return fmt.Errorf("opening_stock[%d]: SKU %q no está en variants", i, o.SKU)
		}
		if !names[o.Location] {
			return fmt.Errorf("opening_stock[%d]: ubicación %q no está en locations", i, o.Location)
		}
		if o.Quantity == 0 {
			return fmt.Errorf("opening_stock[%d]: quantity no puede ser cero", i)
		}
	}
	return nil
}

// Seeder aplica un catálogo usando los casos de uso (no escribe en el almacenamiento directamente).
type Seeder struct {
	catalog *usecase.CatalogUseCase
	engine  *inventory.LedgerEngine
	log     *logger.Logger
}

// NewSeeder construye el seeder.
func NewSeeder(catalog *usecase.CatalogUseCase, engine *inventory.LedgerEngine, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{catalog: catalog, engine: engine, log: log}
}

// Apply registra variantes y ubicaciones nuevas y aplica el stock inicial de las
// llaves que aún no tienen saldo.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result

	for _, v := range c.Variants {
		_, err := s.catalog.CreateVariant(ctx, v)
		switch {
		case err == nil:
			res.VariantsCreated++
		case errors.Is(err, domain.ErrInvalidInput) && isDuplicate(err, "unique_sku"):
			res.Skipped++
			s.log.Debug().Str("sku", v.UniqueSKU).Msg("variante existente, se omite")
		default:
			return res, fmt.Errorf("variante %s: %w", v.UniqueSKU, err)
		}
	}
	for _, l := range c.Locations {
		_, err := s.catalog.CreateLocation(ctx, l)
		switch {
		case err == nil:
			res.LocationsCreated++
		case errors.Is(err, domain.ErrInvalidInput) && isDuplicate(err, "name"):
			res.Skipped++
			s.log.Debug().Str("location", l.Name).Msg("ubicación existente, se omite")
		default:
			return res, fmt.Errorf("ubicación %s: %w", l.Name, err)
		}
	}
	if len(c.OpeningStock) == 0 {
		return res, nil
	}

	variants, locations, err := s.engine.ListReferenceData(ctx)
	if err != nil {
		return res, err
	}
	variantBySKU := make(map[string]string, len(variants))
	for _, v := range variants {
		variantBySKU[v.UniqueSKU] = v.ID
	}
	locationByName := make(map[string]string, len(locations))
	for _, l := range locations {
		locationByName[l.Name] = l.ID
	}
	levels, err := s.engine.ListBalances(ctx)
	if err != nil {
		return res, err
	}
	existing := make(map[entity.BalanceKey]bool, len(levels))
	for _, l := range levels {
		existing[entity.BalanceKey{VariantID: l.Variant.ID, LocationID: l.Location.ID}] = true
	}

	for _, o := range c.OpeningStock {
		key := entity.BalanceKey{VariantID: variantBySKU[o.SKU], LocationID: locationByName[o.Location]}
		if existing[key] {
			res.Skipped++
			continue
		}
		notes := o.Notes
		if notes == "" {
			notes = "saldo inicial"
		}
		if _, err := s.engine.ApplyMovement(ctx, inventory.MovementInputDTO{
			VariantID:      key.VariantID,
			LocationID:     key.LocationID,
			QuantityChange: o.Quantity,
			Notes:          notes,
		}); err != nil {
			return res, fmt.Errorf("stock inicial %s@%s: %w", o.SKU, o.Location, err)
		}
		existing[key] = true
		res.MovementsApplied++
	}
	return res, nil
}

func isDuplicate(err error, field string) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for _, msg := range verr.Fields[field] {
		if strings.HasPrefix(msg, "ya existe") {
			return true
		}
	}
	return false
}
