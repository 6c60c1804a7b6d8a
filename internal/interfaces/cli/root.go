// Package cli implementa stockctl: consulta de existencias y registro de
// movimientos contra la API HTTP.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/stockclient"
)

// RootOptions flags globales de todos los comandos.
type RootOptions struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Format     string // "text" | "json"
}

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json"}

// NewRootCommand crea el comando raíz. defaults viene de config.Load; los flags lo sobrescriben.
func NewRootCommand(defaults config.ClientConfig) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "stockctl",
		Short:         "stockctl - existencias por variante y ubicación",
		Long:          "Consulta saldos de inventario y registra entradas o salidas de stock contra la API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("formato %q inválido: debe ser uno de %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.BaseURL, "api", defaults.BaseURL, "URL base de la API")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", defaults.Timeout, "timeout por petición")
	cmd.PersistentFlags().IntVar(&opts.MaxRetries, "retries", defaults.MaxRetries, "reintentos ante fallas transitorias")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (text|json)")

	cmd.AddCommand(NewLevelsCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewVariantsCommand(opts))
	cmd.AddCommand(NewLocationsCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))

	return cmd
}

func (o *RootOptions) client() (*stockclient.Client, error) {
	return stockclient.New(stockclient.Config{
		BaseURL:    o.BaseURL,
		Timeout:    o.Timeout,
		MaxRetries: o.MaxRetries,
	})
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
