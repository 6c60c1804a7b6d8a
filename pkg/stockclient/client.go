// Package stockclient cliente HTTP de la API de inventario.
//
// Las fallas transitorias (red, 5xx) se reintentan con backoff exponencial;
// los 4xx son definitivos. Un 400 de validación se decodifica como
// *domain.ValidationError para que el llamador pueda mostrar el detalle por campo.
package stockclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Config configuración explícita del cliente (sin globales).
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// InitialInterval primer intervalo del backoff; 0 usa 200ms.
	InitialInterval time.Duration
	// HTTPClient opcional; si es nil se crea uno con Timeout.
	HTTPClient *http.Client
}

// Client cliente de la API.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	maxRetries int
	initial    time.Duration
}

// APIError respuesta de error no de validación (409, 404, 5xx...).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// New valida la configuración y construye el cliente.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("stockclient: base URL requerida")
	}
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("stockclient: base URL inválida %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	initial := cfg.InitialInterval
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{baseURL: u, http: hc, maxRetries: retries, initial: initial}, nil
}

// ListStockLevels GET /stock-levels.
func (c *Client) ListStockLevels(ctx context.Context) ([]dto.StockLevelResponse, error) {
	var out []dto.StockLevelResponse
	err := c.do(ctx, http.MethodGet, "/stock-levels", nil, nil, &out)
	return out, err
}

// ListVariants GET /variants.
func (c *Client) ListVariants(ctx context.Context) ([]dto.VariantResponse, error) {
	var out []dto.VariantResponse
	err := c.do(ctx, http.MethodGet, "/variants", nil, nil, &out)
	return out, err
}

// ListLocations GET /locations.
func (c *Client) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	var out []dto.LocationResponse
	err := c.do(ctx, http.MethodGet, "/locations", nil, nil, &out)
	return out, err
}

// MovementQuery filtros de GET /stock-movements.
type MovementQuery struct {
	VariantID  string
	LocationID string
	Limit      int
	Offset     int
}

// ListMovements GET /stock-movements.
func (c *Client) ListMovements(ctx context.Context, q MovementQuery) (*dto.MovementListResponse, error) {
	params := url.Values{}
	if q.VariantID != "" {
		params.Set("product_variant", q.VariantID)
	}
	if q.LocationID != "" {
		params.Set("location", q.LocationID)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	var out dto.MovementListResponse
	if err := c.do(ctx, http.MethodGet, "/stock-movements", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Audit GET /stock-levels/audit.
func (c *Client) Audit(ctx context.Context) (*dto.AuditResponse, error) {
	var out dto.AuditResponse
	if err := c.do(ctx, http.MethodGet, "/stock-levels/audit", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMovement POST /stock-movements. Solo se reintenta ante 503, cuando el
// servidor confirma que el movimiento no se aplicó.
func (c *Client) CreateMovement(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	var out dto.MovementResponse
	if err := c.do(ctx, http.MethodPost, "/stock-movements", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("stockclient: serializar cuerpo: %w", err)
		}
	}
	target := c.baseURL.JoinPath(path)
	target.RawQuery = params.Encode()
	idempotent := method == http.MethodGet

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initial
	op := func() (struct{}, error) {
		err := c.attempt(ctx, method, target.String(), payload, out)
		if err == nil {
			return struct{}{}, nil
		}
		if retryable(err, idempotent) && ctx.Err() == nil {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
	)
	return err
}

// retryable: red y 5xx para GET; en POST solo 503, donde el servidor garantiza rollback.
func retryable(err error, idempotent bool) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusServiceUnavailable {
			return true
		}
		return idempotent && apiErr.Status >= http.StatusInternalServerError
	}
	return idempotent && domain.IsTransient(err)
}

func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("stockclient: crear petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.NewTransientIOError(method+" "+req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("stockclient: decodificar respuesta: %w", err)
		}
		return nil
	}
	return decodeError(resp)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var body dto.ErrorResponse
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode == http.StatusBadRequest && len(body.Errors) > 0 {
		verr := &domain.ValidationError{}
		for field, msgs := range body.Errors {
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
		return verr
	}
	apiErr := &APIError{Status: resp.StatusCode, Code: body.Code, Message: body.Message}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.NewTransientIOError(resp.Request.Method+" "+resp.Request.URL.Path, apiErr)
	}
	return apiErr
}
