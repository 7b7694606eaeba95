package activities

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/errors"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	pkgtemporal "github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/temporal"
)

// QuoteInput is the activity input for CalculateShippingQuote
type QuoteInput struct {
	PostalCode string          `json:"postalCode"`
	CartTotal  decimal.Decimal `json:"cartTotal"`
}

// QuoteService is the use case the activities delegate to
type QuoteService interface {
	CalculateQuote(ctx context.Context, cmd application.CalculateQuoteCommand) (*application.QuoteDTO, error)
}

// ShippingActivities exposes shipping quotes to checkout workflows
type ShippingActivities struct {
	service QuoteService
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewShippingActivities creates ShippingActivities. m may be nil.
func NewShippingActivities(service QuoteService, m *metrics.Metrics, logger *logging.Logger) *ShippingActivities {
	return &ShippingActivities{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// CalculateShippingQuote prices a cart for a destination postal code. Invalid
// and unknown postal codes fail without retry; lookup failures are retryable.
func (a *ShippingActivities) CalculateShippingQuote(ctx context.Context, input QuoteInput) (*application.QuoteDTO, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Calculating shipping quote", "cep", input.PostalCode, "cartTotal", input.CartTotal.String())

	start := time.Now()
	quote, err := a.service.CalculateQuote(ctx, application.CalculateQuoteCommand{
		PostalCode: input.PostalCode,
		CartTotal:  input.CartTotal,
	})
	a.complete(ctx, err == nil, time.Since(start))

	if err != nil {
		logger.Error("Failed to calculate shipping quote", "cep", input.PostalCode, "error", err)
		return nil, toApplicationError(err)
	}

	logger.Info("Shipping quote calculated",
		"cep", quote.CEP,
		"cost", quote.Shipping.Cost,
		"isFreeShipping", quote.Shipping.IsFreeShipping,
	)
	return quote, nil
}

func (a *ShippingActivities) complete(ctx context.Context, success bool, duration time.Duration) {
	name := pkgtemporal.ActivityNames.CalculateShippingQuote
	if a.metrics != nil {
		a.metrics.RecordActivityCompleted(name, success, duration)
	}
	a.logger.ActivityComplete(ctx, name, duration, success)
}

// toApplicationError keeps the user-facing message as the failure message and
// the error kind as the failure type so workflows can branch on it.
func toApplicationError(err error) error {
	message := domain.MsgQuoteFailed
	if appErr, ok := errors.AsAppError(err); ok {
		message = appErr.Message
	}

	kind := domain.KindOf(err)
	switch kind {
	case domain.InvalidInput, domain.NotFound:
		return temporal.NewNonRetryableApplicationError(message, kind.String(), err)
	default:
		return temporal.NewApplicationErrorWithCause(message, kind.String(), err)
	}
}
