package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
)

func TestGenerateStockReport(t *testing.T) {
	gen := pdf.NewMarotoReportGenerator("")
	levels := []*entity.StockLevel{
		{
			Variant:  entity.Variant{ID: "v1", Product: "Camiseta", Size: "M", Color: "Rojo", UniqueSKU: "CAM-M-R"},
			Location: entity.Location{ID: "l1", Name: "Bodega Central"},
			Quantity: 7,
		},
		{
			Variant:  entity.Variant{ID: "v2", Product: "Abrigo", UniqueSKU: "ABR"},
			Location: entity.Location{ID: "l1", Name: "Bodega Central"},
			Quantity: -2,
		},
	}

	out, err := gen.GenerateStockReport(context.Background(), levels, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateStockReport_SinExistencias(t *testing.T) {
	out, err := pdf.NewMarotoReportGenerator("Existencias").GenerateStockReport(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockReport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoReportGenerator("").GenerateStockReport(ctx, nil, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
