package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

type moveOptions struct {
	variant  string
	location string
	quantity string
	notes    string
}

// NewMoveCommand crea el comando move: registra el movimiento y, si la API lo
// acepta, vuelve a consultar los saldos. Ante un rechazo no imprime el listado.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &moveOptions{}

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Registrar una entrada (+) o salida (-) de stock",
		Example: `  stockctl move --variant <id> --location <id> --qty 10 --notes "compra"
  stockctl move --variant <id> --location <id> --qty=-3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", "", "ID de la variante")
	cmd.Flags().StringVar(&opts.location, "location", "", "ID de la ubicación")
	cmd.Flags().StringVar(&opts.quantity, "qty", "", "cambio de cantidad (entero distinto de cero)")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "notas del movimiento")

	return cmd
}

func runMove(rootOpts *RootOptions, opts *moveOptions, cmd *cobra.Command) error {
	out, errW := cmd.OutOrStdout(), cmd.ErrOrStderr()

	// La cantidad se valida localmente: json.Number solo admite literales numéricos.
	if _, err := ledger.ParseQuantityChange(opts.quantity); err != nil {
		verr := &domain.ValidationError{}
		for _, e := range []error{err, ledger.ValidateDraft(ledger.Draft{
			VariantID:      opts.variant,
			LocationID:     opts.location,
			QuantityChange: 1,
			Notes:          opts.notes,
		})} {
			var fieldErr *domain.ValidationError
			if errors.As(e, &fieldErr) {
				verr.Merge(fieldErr)
			}
		}
		printFailure(errW, verr)
		return ErrReported
	}

	client, err := rootOpts.client()
	if err != nil {
		return err
	}
	res, err := client.CreateMovement(cmd.Context(), dto.CreateMovementRequest{
		ProductVariant: strings.TrimSpace(opts.variant),
		Location:       strings.TrimSpace(opts.location),
		QuantityChange: json.Number(strings.TrimSpace(opts.quantity)),
		Notes:          opts.notes,
	})
	if err != nil {
		printFailure(errW, err)
		return ErrReported
	}

	if rootOpts.Format == "json" {
		if err := printJSON(out, res); err != nil {
			return err
		}
	} else {
		balance := "?"
		if res.Balance != nil {
			balance = strconv.FormatInt(*res.Balance, 10)
		}
		fmt.Fprintf(out, "Movimiento registrado (%s): %s unidades, saldo actual %s.\n\n",
			res.ID, signed(res.QuantityChange), balance)
	}

	levels, err := client.ListStockLevels(cmd.Context())
	if err != nil {
		printFailure(errW, err)
		return ErrReported
	}
	return printLevels(out, rootOpts.Format, levels)
}
