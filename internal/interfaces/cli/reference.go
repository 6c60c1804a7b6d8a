package cli

import (
	"github.com/spf13/cobra"
)

// NewVariantsCommand crea el comando variants.
func NewVariantsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "Listar variantes de producto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.client()
			if err != nil {
				return err
			}
			variants, err := client.ListVariants(cmd.Context())
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return ErrReported
			}
			return printVariants(cmd.OutOrStdout(), rootOpts.Format, variants)
		},
	}
}

// NewLocationsCommand crea el comando locations.
func NewLocationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Listar ubicaciones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.client()
			if err != nil {
				return err
			}
			locations, err := client.ListLocations(cmd.Context())
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return ErrReported
			}
			return printLocations(cmd.OutOrStdout(), rootOpts.Format, locations)
		},
	}
}
