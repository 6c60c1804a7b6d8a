package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/interfaces/cli"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiServer struct {
	url      string
	requests *atomic.Int32
}

// startAPI levanta la API real sobre el almacén en memoria detrás de httptest.
func startAPI(t *testing.T) apiServer {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Variants().Create(ctx, &entity.Variant{ID: "variantA", Product: "Camiseta", Size: "M", Color: "Rojo", UniqueSKU: "CAM-M-R"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "loc1", Name: "Bodega Central"}))

	engine := inventory.NewLedgerEngine(store.TxRunner(), store.Variants(), store.Locations(), store.Levels(), store.Movements(), inventory.EngineConfig{}, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:  engine,
		Catalog: usecase.NewCatalogUseCase(store.Variants(), store.Locations()),
	})

	requests := &atomic.Int32{}
	handler := adaptor.FiberApp(app)
	srv := httptest.NewServer(countRequests(requests, handler))
	t.Cleanup(srv.Close)
	return apiServer{url: srv.URL, requests: requests}
}

func run(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := cli.NewRootCommand(config.ClientConfig{BaseURL: baseURL, Timeout: 2 * time.Second})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// ──────────────────────────────────────────────────────────────────────────────
// Comando raíz
// ──────────────────────────────────────────────────────────────────────────────

func TestCommandPresence(t *testing.T) {
	cmd := cli.NewRootCommand(config.ClientConfig{BaseURL: "http://localhost:8080"})
	for _, name := range []string{"levels", "move", "variants", "locations", "history", "audit"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	api := cmd.PersistentFlags().Lookup("api")
	require.NotNil(t, api)
	assert.Equal(t, "http://localhost:8080", api.DefValue)
}

func TestFormatoInvalido(t *testing.T) {
	_, _, err := run(t, "http://localhost:1", "levels", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

// ──────────────────────────────────────────────────────────────────────────────
// levels / move
// ──────────────────────────────────────────────────────────────────────────────

func TestLevels_SinDatos(t *testing.T) {
	api := startAPI(t)
	out, _, err := run(t, api.url, "levels")
	require.NoError(t, err)
	assert.Equal(t, cli.NoDataMessage+"\n", out)
}

func TestMove_ExitoReconsultaSaldos(t *testing.T) {
	api := startAPI(t)

	out, stderr, err := run(t, api.url, "move", "--variant", "variantA", "--location", "loc1", "--qty", "10", "--notes", "compra")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "Movimiento registrado")
	assert.Contains(t, out, "+10 unidades, saldo actual 10")
	assert.Contains(t, out, "PRODUCTO")
	assert.Contains(t, out, "Bodega Central")

	out, _, err = run(t, api.url, "move", "--variant", "variantA", "--location", "loc1", "--qty=-3")
	require.NoError(t, err)
	assert.Contains(t, out, "saldo actual 7")

	out, _, err = run(t, api.url, "levels", "--format", "json")
	require.NoError(t, err)
	var levels []dto.StockLevelResponse
	require.NoError(t, json.Unmarshal([]byte(out), &levels))
	require.Len(t, levels, 1)
	assert.Equal(t, int64(7), levels[0].Quantity)
}

func TestMove_CantidadInvalidaNoLlegaALaAPI(t *testing.T) {
	api := startAPI(t)

	out, stderr, err := run(t, api.url, "move", "--variant", "variantA", "--qty", "abc")
	require.ErrorIs(t, err, cli.ErrReported)
	assert.Empty(t, out, "sin listado tras un rechazo")
	assert.Contains(t, stderr, "quantity_change: debe ser un número entero")
	assert.Contains(t, stderr, "location: este campo es requerido")
	assert.Equal(t, int32(0), api.requests.Load())
}

func TestMove_RechazosDeLaAPI(t *testing.T) {
	api := startAPI(t)

	out, stderr, err := run(t, api.url, "move", "--variant", "nope", "--location", "loc1", "--qty", "2")
	require.ErrorIs(t, err, cli.ErrReported)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "product_variant")

	out, stderr, err = run(t, api.url, "move", "--variant", "variantA", "--location", "loc1", "--qty", "-2")
	require.ErrorIs(t, err, cli.ErrReported)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Movimiento rechazado")
}

func TestLevels_APICaida(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, stderr, err := run(t, url, "levels", "--retries", "0")
	require.ErrorIs(t, err, cli.ErrReported)
	assert.Contains(t, stderr, "intente más tarde")
}

// ──────────────────────────────────────────────────────────────────────────────
// Referencia, historial y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestVariantsYLocations(t *testing.T) {
	api := startAPI(t)

	out, _, err := run(t, api.url, "variants")
	require.NoError(t, err)
	assert.Contains(t, out, "CAM-M-R")

	out, _, err = run(t, api.url, "locations", "--format", "json")
	require.NoError(t, err)
	var locations []dto.LocationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &locations))
	require.Len(t, locations, 1)
	assert.Equal(t, "Bodega Central", locations[0].Name)
}

func TestHistoryYAudit(t *testing.T) {
	api := startAPI(t)
	_, _, err := run(t, api.url, "move", "--variant", "variantA", "--location", "loc1", "--qty", "5", "--notes", "ingreso")
	require.NoError(t, err)

	out, _, err := run(t, api.url, "history", "--variant", "variantA")
	require.NoError(t, err)
	assert.Contains(t, out, "+5")
	assert.Contains(t, out, "ingreso")

	out, _, err = run(t, api.url, "audit")
	require.NoError(t, err)
	assert.Contains(t, out, "coinciden")
}
