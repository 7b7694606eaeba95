package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLookup struct {
	calls   atomic.Int32
	address *domain.ResolvedAddress
	err     error
}

func (s *stubLookup) Lookup(context.Context, domain.PostalCode) (*domain.ResolvedAddress, error) {
	s.calls.Add(1)
	return s.address, s.err
}

func setupRouter(lookup domain.AddressLookup) *gin.Engine {
	return setupRouterWithLogger(lookup, logging.NewDiscard())
}

func setupRouterWithLogger(lookup domain.AddressLookup, logger *logging.Logger) *gin.Engine {
	m := metrics.New(metrics.DefaultConfig("test"))
	service := application.NewShippingQuoteService(
		domain.NewEstimator(lookup, domain.DefaultShippingPolicy()), nil, m, logger,
	)

	return newRouter(&routerConfig{
		service:      service,
		metrics:      m,
		logger:       logger,
		quoteTimeout: time.Second,
		ready:        func(context.Context) error { return nil },
	})
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCalculateQuoteHandler(t *testing.T) {
	lookup := &stubLookup{address: &domain.ResolvedAddress{
		Street: "Avenida Brasil", Neighborhood: "Centro", City: "Foz do Iguaçu", State: "PR",
	}}
	router := setupRouter(lookup)

	for _, path := range []string{"/api/v1/shipping/quote", "/calculate-shipping"} {
		t.Run(path, func(t *testing.T) {
			w := post(router, path, `{"cep":"85863-000","cartTotal":100}`)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

			body := decode(t, w)
			assert.Equal(t, "85863000", body["cep"])

			address := body["address"].(map[string]any)
			assert.Equal(t, "Avenida Brasil", address["street"])
			assert.Equal(t, "PR", address["state"])

			shipping := body["shipping"].(map[string]any)
			assert.Equal(t, 15.9, shipping["cost"])
			assert.Equal(t, false, shipping["isFreeShipping"])
			assert.Equal(t, 299.9, shipping["freeShippingThreshold"])
			assert.Equal(t, "3-5 dias úteis", shipping["estimatedDays"])
			assert.Equal(t, 199.9, shipping["amountForFreeShipping"])
		})
	}
}

func TestCalculateQuoteHandlerAliases(t *testing.T) {
	lookup := &stubLookup{address: &domain.ResolvedAddress{City: "São Paulo", State: "SP"}}
	router := setupRouter(lookup)

	w := post(router, "/api/v1/shipping/quote", `{"postalCode":"01001000","cartSubtotal":"350.00"}`)

	require.Equal(t, http.StatusOK, w.Code)
	shipping := decode(t, w)["shipping"].(map[string]any)
	assert.Equal(t, true, shipping["isFreeShipping"])
	assert.Equal(t, 0.0, shipping["cost"])
	assert.Equal(t, 0.0, shipping["amountForFreeShipping"])
	assert.Equal(t, "5-7 dias úteis", shipping["estimatedDays"])
}

func TestCalculateQuoteHandlerMissingCartTotalIsZero(t *testing.T) {
	lookup := &stubLookup{address: &domain.ResolvedAddress{City: "Manaus", State: "AM"}}
	router := setupRouter(lookup)

	w := post(router, "/calculate-shipping", `{"cep":"69005000"}`)

	require.Equal(t, http.StatusOK, w.Code)
	shipping := decode(t, w)["shipping"].(map[string]any)
	assert.Equal(t, 58.9, shipping["cost"])
	assert.Equal(t, 299.9, shipping["amountForFreeShipping"])
}

func TestCalculateQuoteHandlerJustBelowThreshold(t *testing.T) {
	lookup := &stubLookup{address: &domain.ResolvedAddress{City: "Curitiba", State: "PR"}}
	router := setupRouter(lookup)

	w := post(router, "/calculate-shipping", `{"cep":"80000000","cartTotal":299.899999999}`)

	require.Equal(t, http.StatusOK, w.Code)
	shipping := decode(t, w)["shipping"].(map[string]any)
	assert.Equal(t, false, shipping["isFreeShipping"])
	assert.Equal(t, 15.9, shipping["cost"])
	assert.Equal(t, 0.01, shipping["amountForFreeShipping"])
}

func TestCalculateQuoteHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		lookupErr  error
		wantStatus int
		wantError  string
		wantLookup bool
	}{
		{"missing cep", `{"cartTotal":10}`, nil, http.StatusBadRequest, domain.MsgPostalCodeRequired, false},
		{"short cep", `{"cep":"123","cartTotal":10}`, nil, http.StatusBadRequest, domain.MsgPostalCodeInvalid, false},
		{"empty body", ``, nil, http.StatusBadRequest, domain.MsgPostalCodeRequired, false},
		{"blank body", "  \n", nil, http.StatusBadRequest, domain.MsgPostalCodeRequired, false},
		{"long cep", `{"cep":"` + strings.Repeat("1", 70) + `"}`, nil, http.StatusBadRequest, domain.MsgPostalCodeInvalid, false},
		{"negative cart", `{"cep":"85863000","cartTotal":-5}`, nil, http.StatusBadRequest, domain.MsgCartTotalInvalid, false},
		{"malformed json", `{"cep":`, nil, http.StatusBadRequest, msgMalformedRequest, false},
		{"non numeric cart", `{"cep":"85863000","cartTotal":"abc"}`, nil, http.StatusBadRequest, msgMalformedRequest, false},
		{"not found", `{"cep":"00000000","cartTotal":10}`, domain.ErrAddressNotFound, http.StatusNotFound, domain.MsgPostalCodeNotFound, true},
		{"upstream failure", `{"cep":"85863000","cartTotal":10}`, errors.New("dial tcp: timeout"), http.StatusInternalServerError, domain.MsgQuoteFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &stubLookup{address: &domain.ResolvedAddress{State: "PR"}, err: tt.lookupErr}
			router := setupRouter(lookup)

			w := post(router, "/api/v1/shipping/quote", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotEmpty(t, body["requestId"])
			assert.Equal(t, tt.wantLookup, lookup.calls.Load() > 0)
		})
	}
}

func TestCalculateQuoteHandlerLogsFailureOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New(&logging.Config{Level: logging.LevelInfo, ServiceName: serviceName, Output: buf})
	router := setupRouterWithLogger(&stubLookup{err: errors.New("dial tcp: timeout")}, logger)

	w := post(router, "/calculate-shipping", `{"cep":"85863000"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, strings.Count(buf.String(), "Postal code lookup failed"))
	assert.NotContains(t, buf.String(), "API error")
}

func TestPreflight(t *testing.T) {
	router := setupRouter(&stubLookup{})

	for _, path := range []string{"/api/v1/shipping/quote", "/calculate-shipping", "/anything"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "x-client-info", path)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "apikey", path)
	}
}

func TestGetPolicyHandler(t *testing.T) {
	router := setupRouter(&stubLookup{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipping/policy", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 45.9, body["fallbackRate"])
	assert.Equal(t, 299.9, body["freeShippingThreshold"])
	assert.Len(t, body["rates"], 27)
	assert.Len(t, body["tiers"], 4)
}

func TestOperationalEndpoints(t *testing.T) {
	router := setupRouter(&stubLookup{})

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
