package cli

import (
	"github.com/spf13/cobra"
)

// NewLevelsCommand crea el comando levels.
func NewLevelsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Listar saldos por variante y ubicación",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.client()
			if err != nil {
				return err
			}
			levels, err := client.ListStockLevels(cmd.Context())
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return ErrReported
			}
			return printLevels(cmd.OutOrStdout(), rootOpts.Format, levels)
		},
	}
}
