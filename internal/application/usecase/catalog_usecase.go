package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CatalogUseCase registro de datos de referencia: variantes y ubicaciones.
// Una vez creados no se modifican; los movimientos los referencian por ID.
type CatalogUseCase struct {
	variantRepo  repository.VariantRepository
	locationRepo repository.LocationRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(variantRepo repository.VariantRepository, locationRepo repository.LocationRepository) *CatalogUseCase {
	return &CatalogUseCase{variantRepo: variantRepo, locationRepo: locationRepo}
}

// CreateVariant registra una variante. El SKU debe ser único.
func (uc *CatalogUseCase) CreateVariant(ctx context.Context, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	in.Product = strings.TrimSpace(in.Product)
	in.Size = strings.TrimSpace(in.Size)
	in.Color = strings.TrimSpace(in.Color)
	in.UniqueSKU = strings.TrimSpace(in.UniqueSKU)

	verr := &domain.ValidationError{}
	if in.Product == "" {
		verr.Add("product", "este campo es requerido")
	}
	if in.UniqueSKU == "" {
		verr.Add("unique_sku", "este campo es requerido")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	variant := &entity.Variant{
		ID:        uuid.New().String(),
		Product:   in.Product,
		Size:      in.Size,
		Color:     in.Color,
		UniqueSKU: in.UniqueSKU,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.variantRepo.Create(ctx, variant); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("unique_sku", "ya existe una variante con este SKU")
		}
		return nil, err
	}
	out := dto.FromVariant(variant)
	return &out, nil
}

// CreateLocation registra una ubicación.
func (uc *CatalogUseCase) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "este campo es requerido")
	}
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.locationRepo.Create(ctx, location); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("name", "ya existe una ubicación con este nombre")
		}
		return nil, err
	}
	out := dto.FromLocation(location)
	return &out, nil
}
