package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/pkg/stockclient"
)

// NewHistoryCommand crea el comando history (movimientos, más reciente primero).
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	q := stockclient.MovementQuery{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Historial de movimientos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.client()
			if err != nil {
				return err
			}
			list, err := client.ListMovements(cmd.Context(), q)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return ErrReported
			}
			return printMovements(cmd.OutOrStdout(), rootOpts.Format, list)
		},
	}

	cmd.Flags().StringVar(&q.VariantID, "variant", "", "filtrar por variante")
	cmd.Flags().StringVar(&q.LocationID, "location", "", "filtrar por ubicación")
	cmd.Flags().IntVar(&q.Limit, "limit", 20, "máximo de movimientos")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "desplazamiento")

	return cmd
}

// NewAuditCommand crea el comando audit. Sale con error si algún saldo no cuadra con el libro.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Verificar saldos contra la suma de movimientos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.client()
			if err != nil {
				return err
			}
			res, err := client.Audit(cmd.Context())
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return ErrReported
			}
			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				if err := printJSON(out, res); err != nil {
					return err
				}
			} else if res.Consistent {
				fmt.Fprintln(out, "✓ Todos los saldos coinciden con el libro de movimientos.")
			} else {
				for _, d := range res.Discrepancies {
					fmt.Fprintf(out, "✗ %s@%s: saldo %d, libro %d\n", d.ProductVariant, d.Location, d.Balance, d.LedgerSum)
				}
			}
			if !res.Consistent {
				return ErrReported
			}
			return nil
		},
	}
}
