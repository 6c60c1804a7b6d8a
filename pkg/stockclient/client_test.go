package stockclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/stockclient"
)

func newClient(t *testing.T, srv *httptest.Server, retries int) *stockclient.Client {
	t.Helper()
	c, err := stockclient.New(stockclient.Config{
		BaseURL:         srv.URL,
		Timeout:         2 * time.Second,
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_ValidaBaseURL(t *testing.T) {
	_, err := stockclient.New(stockclient.Config{})
	assert.Error(t, err)
	_, err = stockclient.New(stockclient.Config{BaseURL: "localhost"})
	assert.Error(t, err)
	_, err = stockclient.New(stockclient.Config{BaseURL: "http://localhost:8080/"})
	assert.NoError(t, err)
}

func TestListStockLevels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock-levels", r.URL.Path)
		writeJSON(w, http.StatusOK, []dto.StockLevelResponse{{
			Variant:  dto.VariantResponse{ID: "v1", Product: "Camiseta", UniqueSKU: "CAM"},
			Location: dto.LocationResponse{ID: "l1", Name: "Bodega"},
			Quantity: 7,
		}})
	}))
	defer srv.Close()

	levels, err := newClient(t, srv, 0).ListStockLevels(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, int64(7), levels[0].Quantity)
}

func TestGet_ReintentaAnte503(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Code: "UNAVAILABLE", Message: "intente más tarde"})
			return
		}
		writeJSON(w, http.StatusOK, []dto.VariantResponse{{ID: "v1", Product: "Camiseta"}})
	}))
	defer srv.Close()

	variants, err := newClient(t, srv, 3).ListVariants(context.Background())
	require.NoError(t, err)
	assert.Len(t, variants, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_AgotaReintentosDevuelveTransitorio(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}))
	defer srv.Close()

	_, err := newClient(t, srv, 2).ListLocations(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))
	var apiErr *stockclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreateMovement_ValidacionNoSeReintenta(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Errors:  map[string][]string{"quantity_change": {"no puede ser cero"}},
		})
	}))
	defer srv.Close()

	_, err := newClient(t, srv, 5).CreateMovement(context.Background(), dto.CreateMovementRequest{
		ProductVariant: "v1", Location: "l1", QuantityChange: json.Number("0"),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"no puede ser cero"}, verr.Fields["quantity_change"])
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateMovement_ConflictoEsDefinitivo(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "stock insuficiente"})
	}))
	defer srv.Close()

	_, err := newClient(t, srv, 5).CreateMovement(context.Background(), dto.CreateMovementRequest{
		ProductVariant: "v1", Location: "l1", QuantityChange: json.Number("-9"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, domain.IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateMovement_ReintentaSolo503(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in dto.CreateMovementRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, json.Number("4"), in.QuantityChange)

		switch calls.Add(1) {
		case 1:
			writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Code: "UNAVAILABLE"})
		default:
			balance := int64(4)
			writeJSON(w, http.StatusCreated, dto.MovementResponse{ID: "m1", QuantityChange: 4, Balance: &balance})
		}
	}))
	defer srv.Close()

	res, err := newClient(t, srv, 2).CreateMovement(context.Background(), dto.CreateMovementRequest{
		ProductVariant: "v1", Location: "l1", QuantityChange: json.Number("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.ID)
	require.NotNil(t, res.Balance)
	assert.Equal(t, int64(4), *res.Balance)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateMovement_500NoSeReintenta(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL"})
	}))
	defer srv.Close()

	_, err := newClient(t, srv, 3).CreateMovement(context.Background(), dto.CreateMovementRequest{
		ProductVariant: "v1", Location: "l1", QuantityChange: json.Number("1"),
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "un POST ambiguo no se repite")
}

func TestListMovements_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1", r.URL.Query().Get("product_variant"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("offset"))
		writeJSON(w, http.StatusOK, dto.MovementListResponse{
			Items: []dto.MovementResponse{{ID: "m1"}},
			Page:  dto.PageRequest{Limit: 10},
		})
	}))
	defer srv.Close()

	list, err := newClient(t, srv, 0).ListMovements(context.Background(), stockclient.MovementQuery{VariantID: "v1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 10, list.Page.Limit)
}

func TestErrorDeRedEsTransitorio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := stockclient.New(stockclient.Config{BaseURL: url, MaxRetries: 1, InitialInterval: time.Millisecond})
	require.NoError(t, err)
	_, err = c.Audit(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))
}
