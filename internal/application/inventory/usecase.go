package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// ApplyMovementFromRequest adapta el request HTTP al caso de uso ApplyMovement(ctx, MovementInputDTO).
// El delta llega sin interpretar para que decimales o texto se reporten como error del campo.
func (e *LedgerEngine) ApplyMovementFromRequest(ctx context.Context, in dto.CreateMovementRequest) (*MovementResult, error) {
	qty, err := ledger.ParseQuantityChange(in.QuantityChange.String())
	if err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		// Reportar también los demás campos en la misma respuesta
		var rest *domain.ValidationError
		if errors.As(ledger.ValidateDraft(ledger.Draft{
			VariantID:      in.ProductVariant,
			LocationID:     in.Location,
			QuantityChange: 1,
			Notes:          in.Notes,
		}), &rest) {
			verr.Merge(rest)
		}
		return nil, verr
	}
	return e.ApplyMovement(ctx, MovementInputDTO{
		VariantID:      in.ProductVariant,
		LocationID:     in.Location,
		QuantityChange: qty,
		Notes:          in.Notes,
	})
}
