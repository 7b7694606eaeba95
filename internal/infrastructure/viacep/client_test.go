package viacep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Metrics) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := metrics.New(metrics.DefaultConfig("test"))
	config := DefaultConfig()
	config.BaseURL = server.URL + "/"
	config.Timeout = time.Second
	return NewClient(config, logging.NewDiscard(), m), m
}

func TestLookupFound(t *testing.T) {
	var path string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cep": "85863-000",
			"logradouro": "Avenida Brasil",
			"complemento": "",
			"bairro": "Centro",
			"localidade": "Foz do Iguaçu",
			"uf": "pr",
			"ibge": "4108304"
		}`))
	})

	address, err := client.Lookup(context.Background(), "85863000")
	require.NoError(t, err)

	assert.Equal(t, "/ws/85863000/json/", path)
	assert.Equal(t, &domain.ResolvedAddress{
		Street:       "Avenida Brasil",
		Neighborhood: "Centro",
		City:         "Foz do Iguaçu",
		State:        "PR",
	}, address)
}

func TestLookupNotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"boolean flag", `{"erro": true}`},
		{"string flag", `{"erro": "true"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Lookup(context.Background(), "00000000")
			assert.ErrorIs(t, err, domain.ErrAddressNotFound)
		})
	}
}

func TestLookupFalseFlagIsFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"erro": false, "localidade": "Curitiba", "uf": "PR"}`))
	})

	address, err := client.Lookup(context.Background(), "80000000")
	require.NoError(t, err)
	assert.Equal(t, "Curitiba", address.City)
}

func TestLookupUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"bad request", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}},
		{"invalid json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}},
		{"null body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`null`))
		}},
		{"empty object", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{"malformed uf", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"cep":"85863-000","localidade":"Foz do Iguaçu","uf":"P"}`))
		}},
		{"numeric uf", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"cep":"85863-000","localidade":"Foz do Iguaçu","uf":"41"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, m := newTestClient(t, tt.handler)

			_, err := client.Lookup(context.Background(), "85863000")
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrAddressNotFound)
			assert.Equal(t, 1, testutil.CollectAndCount(m.PostalLookupDuration))
		})
	}
}

func TestLookupHonoursContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Lookup(ctx, "85863000")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreakerOpensOnRepeatedFailuresButNotOnNotFound(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool

	client, m := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"erro": true}`))
	})

	for i := 0; i < int(resilience.DefaultFailureThreshold)+2; i++ {
		_, err := client.Lookup(context.Background(), "00000000")
		assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	}

	fail.Store(true)
	for i := 0; i < int(resilience.DefaultFailureThreshold); i++ {
		_, _ = client.Lookup(context.Background(), "85863000")
	}
	before := calls.Load()

	_, err := client.Lookup(context.Background(), "85863000")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, before, calls.Load(), "open breaker must not reach the server")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("test", breakerName)))
}
