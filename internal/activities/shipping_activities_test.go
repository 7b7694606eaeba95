package activities

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	pkgtemporal "github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/temporal"
)

func newEnv(t *testing.T, lookup domain.AddressLookup, m *metrics.Metrics) *testsuite.TestActivityEnvironment {
	t.Helper()
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()

	estimator := domain.NewEstimator(lookup, domain.DefaultShippingPolicy())
	service := application.NewShippingQuoteService(estimator, nil, m, logging.NewDiscard())
	shipping := NewShippingActivities(service, m, logging.NewDiscard())

	env.RegisterActivityWithOptions(shipping.CalculateShippingQuote, activity.RegisterOptions{
		Name: pkgtemporal.ActivityNames.CalculateShippingQuote,
	})
	return env
}

func staticLookup(address *domain.ResolvedAddress, err error) domain.AddressLookup {
	return domain.AddressLookupFunc(func(context.Context, domain.PostalCode) (*domain.ResolvedAddress, error) {
		return address, err
	})
}

func TestCalculateShippingQuote_Success(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("test"))
	env := newEnv(t, staticLookup(&domain.ResolvedAddress{City: "Salvador", State: "BA"}, nil), m)

	result, err := env.ExecuteActivity(pkgtemporal.ActivityNames.CalculateShippingQuote, QuoteInput{
		PostalCode: "40010-000",
		CartTotal:  decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)

	var quote application.QuoteDTO
	require.NoError(t, result.Get(&quote))
	assert.Equal(t, "40010000", quote.CEP)
	assert.InDelta(t, 39.90, quote.Shipping.Cost, 1e-9)
	assert.Equal(t, "10-15 dias úteis", quote.Shipping.EstimatedDays)
	assert.InDelta(t, 179.40, quote.Shipping.AmountForFreeShipping, 1e-9)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.ActivitiesCompleted.WithLabelValues("test", pkgtemporal.ActivityNames.CalculateShippingQuote, "success"),
	))
}

func TestCalculateShippingQuote_Errors(t *testing.T) {
	tests := []struct {
		name             string
		postalCode       string
		lookupErr        error
		wantType         string
		wantNonRetryable bool
	}{
		{"invalid postal code", "123", nil, domain.InvalidInput.String(), true},
		{"unknown postal code", "00000000", domain.ErrAddressNotFound, domain.NotFound.String(), true},
		{"lookup failure", "85863000", stderrors.New("viacep: status 502"), domain.UpstreamUnavailable.String(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, staticLookup(&domain.ResolvedAddress{State: "PR"}, tt.lookupErr), nil)

			_, err := env.ExecuteActivity(pkgtemporal.ActivityNames.CalculateShippingQuote, QuoteInput{
				PostalCode: tt.postalCode,
				CartTotal:  decimal.NewFromInt(10),
			})
			require.Error(t, err)

			var appErr *temporal.ApplicationError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type())
			assert.Equal(t, tt.wantNonRetryable, appErr.NonRetryable())
		})
	}
}
