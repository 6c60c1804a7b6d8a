package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// EngineConfig reglas de negocio configurables del motor.
type EngineConfig struct {
	// AllowNegative permite saldos negativos (pedidos pendientes). Si es false,
	// un movimiento que deje el saldo bajo cero falla con ConflictError.
	AllowNegative bool
}

// LedgerEngine es la única autoridad que muta saldos. Aplica cada movimiento y su efecto
// sobre el saldo como una unidad atómica, serializada por llave (variante, ubicación).
type LedgerEngine struct {
	txRunner     TxRunner
	variantRepo  repository.VariantRepository
	locationRepo repository.LocationRepository
	levels       repository.StockLevelReader
	movements    repository.MovementReader
	cfg          EngineConfig
	log          *logger.Logger
	now          func() time.Time
}

// NewLedgerEngine construye el motor.
func NewLedgerEngine(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	locationRepo repository.LocationRepository,
	levels repository.StockLevelReader,
	movements repository.MovementReader,
	cfg EngineConfig,
	log *logger.Logger,
) *LedgerEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerEngine{
		txRunner:     txRunner,
		variantRepo:  variantRepo,
		locationRepo: locationRepo,
		levels:       levels,
		movements:    movements,
		cfg:          cfg,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// MovementInputDTO entrada para aplicar un movimiento.
type MovementInputDTO struct {
	VariantID      string
	LocationID     string
	QuantityChange int64
	Notes          string
}

// MovementResult movimiento aceptado y saldo autoritativo tras aplicarlo.
type MovementResult struct {
	Movement *entity.Movement
	Balance  *entity.Balance
}

// ApplyMovement valida la entrada, bloquea el saldo de la llave (creándolo en 0 si no existe),
// suma el delta y agrega el movimiento, todo en una transacción. Commit o Rollback lo hace el TxRunner.
func (e *LedgerEngine) ApplyMovement(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	draft := ledger.Draft{
		VariantID:      strings.TrimSpace(input.VariantID),
		LocationID:     strings.TrimSpace(input.LocationID),
		QuantityChange: input.QuantityChange,
		Notes:          strings.TrimSpace(input.Notes),
	}
	if err := ledger.ValidateDraft(draft); err != nil {
		return nil, err
	}

	// Validar que variante y ubicación existan (datos de referencia inmutables, fuera de la tx)
	variant, err := e.variantRepo.GetByID(ctx, draft.VariantID)
	if err != nil {
		return nil, err
	}
	location, err := e.locationRepo.GetByID(ctx, draft.LocationID)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateReferences(draft, variant, location); err != nil {
		return nil, err
	}

	key := entity.BalanceKey{VariantID: draft.VariantID, LocationID: draft.LocationID}
	now := e.now()

	var result MovementResult
	err = e.txRunner.Run(ctx, func(movRepo repository.MovementRepository, balances repository.BalanceStore) error {
		// Bloquea la llave para evitar actualizaciones perdidas entre escritores concurrentes
		current, err := balances.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if _, err := ledger.NextQuantity(current, draft.QuantityChange, e.cfg.AllowNegative); err != nil {
			return err
		}
		balance, err := balances.Increment(ctx, key, draft.QuantityChange)
		if err != nil {
			return err
		}
		mov := &entity.Movement{
			VariantID:      draft.VariantID,
			LocationID:     draft.LocationID,
			QuantityChange: draft.QuantityChange,
			Notes:          draft.Notes,
			CreatedAt:      now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result = MovementResult{Movement: mov, Balance: balance}
		return nil
	})
	if err != nil {
		e.log.Warn().Err(err).Str("key", key.String()).Int64("change", draft.QuantityChange).Msg("movimiento rechazado")
		return nil, err
	}

	e.log.Debug().
		Str("movement_id", result.Movement.ID).
		Int64("sequence", result.Movement.Sequence).
		Str("key", key.String()).
		Int64("change", draft.QuantityChange).
		Int64("balance", result.Balance.Quantity).
		Msg("movimiento aplicado")
	return &result, nil
}
