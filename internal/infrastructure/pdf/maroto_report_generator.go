// Package pdf genera el reporte de existencias por variante y ubicación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Talla | Color | SKU | Ubicación | Cant.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: filas / unidades                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ inventory.StockReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.StockReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	title string
}

// NewMarotoReportGenerator construye el generador; title vacío usa el título por defecto.
func NewMarotoReportGenerator(title string) *MarotoReportGenerator {
	if title == "" {
		title = "Reporte de existencias"
	}
	return &MarotoReportGenerator{title: title}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockReport(
	ctx context.Context,
	levels []*entity.StockLevel,
	generatedAt time.Time,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(levels) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay existencias registradas.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(levels)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(totalsRow(levels))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReportGenerator) headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Talla", 1, align.Center),
		h("Color", 2, align.Left),
		h("SKU", 2, align.Left),
		h("Ubicación", 3, align.Left),
		h("Cant.", 1, align.Right),
	)
}

func tableRows(levels []*entity.StockLevel) []core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(levels))
	for _, l := range levels {
		qty := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if l.Quantity < 0 {
			qty.Color = colorDanger
			qty.Style = fontstyle.Bold
		}
		rows = append(rows, row.New(6).Add(
			cell(l.Variant.Product, 3, align.Left),
			cell(nonEmpty(l.Variant.Size, "-"), 1, align.Center),
			cell(nonEmpty(l.Variant.Color, "-"), 2, align.Left),
			cell(l.Variant.UniqueSKU, 2, align.Left),
			cell(l.Location.Name, 3, align.Left),
			col.New(1).Add(text.New(strconv.FormatInt(l.Quantity, 10), qty)),
		))
	}
	return rows
}

func totalsRow(levels []*entity.StockLevel) core.Row {
	var units int64
	for _, l := range levels {
		units += l.Quantity
	}
	return row.New(8).Add(
		col.New(8).Add(text.New(fmt.Sprintf("%d registros", len(levels)), props.Text{
			Size: 8, Top: 2, Color: colorGray,
		})),
		col.New(4).Add(text.New("Total unidades: "+strconv.FormatInt(units, 10), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
