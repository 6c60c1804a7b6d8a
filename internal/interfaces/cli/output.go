package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// ErrReported el comando ya escribió el detalle del error; main solo fija el código de salida.
var ErrReported = errors.New("error reportado")

// NoDataMessage se imprime cuando no hay saldos que mostrar.
const NoDataMessage = "No hay existencias registradas."

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLevels(w io.Writer, format string, levels []dto.StockLevelResponse) error {
	if format == "json" {
		if levels == nil {
			levels = []dto.StockLevelResponse{}
		}
		return printJSON(w, levels)
	}
	if len(levels) == 0 {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTO\tTALLA\tCOLOR\tSKU\tUBICACIÓN\tCANTIDAD")
	for _, l := range levels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			l.Variant.Product, dash(l.Variant.Size), dash(l.Variant.Color),
			l.Variant.UniqueSKU, l.Location.Name, l.Quantity)
	}
	return tw.Flush()
}

func printVariants(w io.Writer, format string, variants []dto.VariantResponse) error {
	if format == "json" {
		return printJSON(w, variants)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCTO\tTALLA\tCOLOR\tSKU")
	for _, v := range variants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Product, dash(v.Size), dash(v.Color), v.UniqueSKU)
	}
	return tw.Flush()
}

func printLocations(w io.Writer, format string, locations []dto.LocationResponse) error {
	if format == "json" {
		return printJSON(w, locations)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE")
	for _, l := range locations {
		fmt.Fprintf(tw, "%s\t%s\n", l.ID, l.Name)
	}
	return tw.Flush()
}

func printMovements(w io.Writer, format string, list *dto.MovementListResponse) error {
	if format == "json" {
		return printJSON(w, list)
	}
	if len(list.Items) == 0 {
		_, err := fmt.Fprintln(w, "No hay movimientos registrados.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tFECHA\tVARIANTE\tUBICACIÓN\tCAMBIO\tNOTAS")
	for _, m := range list.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.Sequence, m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.ProductVariant, m.Location, signed(m.QuantityChange), m.Notes)
	}
	return tw.Flush()
}

// printFailure escribe el error en errW; los de validación campo por campo.
func printFailure(errW io.Writer, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(errW, "Movimiento rechazado por datos inválidos:")
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			for _, msg := range verr.Fields[f] {
				fmt.Fprintf(errW, "  - %s: %s\n", f, msg)
			}
		}
		return
	}
	switch {
	case errors.Is(err, domain.ErrConflict):
		fmt.Fprintln(errW, "Movimiento rechazado:", err)
	case domain.IsTransient(err):
		fmt.Fprintln(errW, "No se pudo contactar la API, intente más tarde:", err)
	default:
		fmt.Fprintln(errW, "Error:", err)
	}
}

func signed(n int64) string {
	if n > 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
