package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/resilience"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/tracing"
)

const (
	breakerName     = "viacep"
	maxResponseSize = 1 << 20
)

// Config holds ViaCEP client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the public ViaCEP endpoint
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://viacep.com.br",
		Timeout: 5 * time.Second,
	}
}

// Client is the anti-corruption layer between ViaCEP and domain.AddressLookup.
// Calls go through a circuit breaker; a not-found answer is a healthy response
// and never counts against it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *resilience.CircuitBreaker
	tracer     trace.Tracer
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a ViaCEP client. m may be nil.
func NewClient(config *Config, logger *logging.Logger, m *metrics.Metrics) *Client {
	breakerConfig := resilience.DefaultCircuitBreakerConfig(breakerName)
	breakerConfig.IsSuccessful = func(err error) bool {
		// A caller hanging up says nothing about ViaCEP's health.
		return err == nil || errors.Is(err, domain.ErrAddressNotFound) || errors.Is(err, context.Canceled)
	}
	if m != nil {
		breakerConfig.OnStateChange = func(name string, _, to gobreaker.State) {
			m.SetCircuitBreakerState(name, resilience.StateValue(to))
			if to == gobreaker.StateOpen {
				m.RecordCircuitBreakerTrip(name)
			}
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		breaker: resilience.NewCircuitBreaker(breakerConfig, logger.Logger),
		tracer:  otel.Tracer("viacep"),
		logger:  logger.WithComponent("viacep"),
		metrics: m,
	}
}

// Lookup resolves code through ViaCEP
func (c *Client) Lookup(ctx context.Context, code domain.PostalCode) (*domain.ResolvedAddress, error) {
	start := time.Now()

	address, err := resilience.Execute(ctx, c.breaker, func(ctx context.Context) (*domain.ResolvedAddress, error) {
		return tracing.TracedOperation(ctx, c.tracer, "viacep.lookup", func(ctx context.Context) (*domain.ResolvedAddress, error) {
			return c.fetch(ctx, code)
		})
	})

	outcome := "found"
	switch {
	case errors.Is(err, domain.ErrAddressNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
		c.logger.WithContext(ctx).WithError(err).Warn("Postal code lookup failed", "cep", code.String())
	}
	if c.metrics != nil {
		c.metrics.RecordPostalLookup(outcome, time.Since(start))
	}

	return address, err
}

// response is the ViaCEP payload. Erro is a bool on current deployments and
// the string "true" on older ones.
type response struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro,omitempty"`
}

func (r *response) notFound() bool {
	switch strings.TrimSpace(string(r.Erro)) {
	case "true", `"true"`:
		return true
	}
	return false
}

func validUF(uf string) bool {
	uf = domain.NormalizeRegion(uf)
	if len(uf) != 2 {
		return false
	}
	for i := 0; i < len(uf); i++ {
		if uf[i] < 'A' || uf[i] > 'Z' {
			return false
		}
	}
	return true
}

func (r *response) toDomain() *domain.ResolvedAddress {
	return &domain.ResolvedAddress{
		Street:       r.Logradouro,
		Neighborhood: r.Bairro,
		City:         r.Localidade,
		State:        domain.NormalizeRegion(r.UF),
	}
}

func (c *Client) fetch(ctx context.Context, code domain.PostalCode) (*domain.ResolvedAddress, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("viacep: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	tracing.InjectTraceContext(ctx, propagation.HeaderCarrier(req.Header))

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		semconv.HTTPMethodKey.String(http.MethodGet),
		attribute.String("http.url", url),
		attribute.String("postal_code", code.String()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep: request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("viacep: unexpected status %d", resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("viacep: decode response: %w", err)
	}

	if payload.notFound() {
		return nil, fmt.Errorf("viacep: cep %s: %w", code, domain.ErrAddressNotFound)
	}
	if !validUF(payload.UF) {
		return nil, fmt.Errorf("viacep: response without uf for %s", code)
	}

	return payload.toDomain(), nil
}
