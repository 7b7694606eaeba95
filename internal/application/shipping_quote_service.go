package application

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/errors"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
)

// Quote outcomes reported to metrics next to the error kinds
const (
	OutcomeQuoted       = "quoted"
	OutcomeFreeShipping = "free_shipping"
)

// DefaultPublishTimeout bounds a single quote event publish
const DefaultPublishTimeout = 5 * time.Second

// ShippingQuoteService handles the shipping quote use case
type ShippingQuoteService struct {
	estimator      *domain.Estimator
	publisher      domain.QuoteEventPublisher
	metrics        *metrics.Metrics
	logger         *logging.Logger
	publishTimeout time.Duration
	inflight       sync.WaitGroup
}

// NewShippingQuoteService creates a new ShippingQuoteService. publisher and m may be nil.
func NewShippingQuoteService(
	estimator *domain.Estimator,
	publisher domain.QuoteEventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ShippingQuoteService {
	return &ShippingQuoteService{
		estimator:      estimator,
		publisher:      publisher,
		metrics:        m,
		logger:         logger.WithComponent("shipping-quote-service"),
		publishTimeout: DefaultPublishTimeout,
	}
}

// CalculateQuote prices the shipment of a cart to a postal code. Errors are
// *errors.AppError wrapping the underlying *domain.EstimateError.
func (s *ShippingQuoteService) CalculateQuote(ctx context.Context, cmd CalculateQuoteCommand) (*QuoteDTO, error) {
	start := time.Now()
	quote, err := s.estimator.Estimate(ctx, cmd.PostalCode, cmd.CartTotal)
	if err != nil {
		return nil, s.handleEstimateError(ctx, cmd, err)
	}

	outcome := OutcomeQuoted
	if quote.IsFreeShipping {
		outcome = OutcomeFreeShipping
	}
	s.recordQuote(outcome, quote.Address.State)

	s.logger.Performance(ctx, "calculate_shipping_quote", time.Since(start), true, map[string]any{
		"cep":          quote.PostalCode.String(),
		"state":        quote.Address.State,
		"cost":         quote.Cost.StringFixed(2),
		"freeShipping": quote.IsFreeShipping,
		"rateFallback": quote.RateFallback,
		"deliveryTier": quote.DeliveryTier,
	})

	s.publishQuote(ctx, quote, cmd.CartTotal)

	return ToQuoteDTO(quote), nil
}

// GetPolicy returns the policy the service prices with
func (s *ShippingQuoteService) GetPolicy() *PolicyDTO {
	return ToPolicyDTO(s.estimator.Policy())
}

// Wait blocks until pending event publishes finish
func (s *ShippingQuoteService) Wait() {
	s.inflight.Wait()
}

func (s *ShippingQuoteService) handleEstimateError(ctx context.Context, cmd CalculateQuoteCommand, err error) error {
	kind := domain.KindOf(err)
	s.recordQuote(kind.String(), "")

	logger := s.logger.WithContext(ctx).WithError(err)
	switch kind {
	case domain.InvalidInput:
		logger.Warn("Rejected shipping quote input", "cep", cmd.PostalCode)
		return errors.ErrValidation(messageOf(err)).WithDetail("field", invalidField(err)).Wrap(err)
	case domain.NotFound:
		logger.Warn("Postal code not found", "cep", cmd.PostalCode)
		return errors.ErrNotFound(messageOf(err)).WithDetail("field", "cep").Wrap(err)
	case domain.UpstreamUnavailable:
		logger.Error("Postal code lookup failed", "cep", cmd.PostalCode)
		return errors.ErrUpstreamUnavailable(messageOf(err)).Wrap(err)
	default:
		logger.Error("Unexpected shipping quote failure", "cep", cmd.PostalCode)
		return errors.ErrInternal(domain.MsgQuoteFailed).Wrap(err)
	}
}

func invalidField(err error) string {
	if messageOf(err) == domain.MsgCartTotalInvalid {
		return "cartTotal"
	}
	return "cep"
}

// publishQuote emits the quote event in the background. Failures are logged
// and never affect the quote returned to the caller.
func (s *ShippingQuoteService) publishQuote(ctx context.Context, quote *domain.ShippingQuote, cartTotal decimal.Decimal) {
	if s.publisher == nil {
		return
	}

	event := domain.NewQuoteCalculatedEvent(*quote, cartTotal)
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		if err := s.publisher.PublishQuoteCalculated(publishCtx, event); err != nil {
			s.logger.WithContext(publishCtx).WithError(err).Warn("Failed to publish quote event",
				"cep", quote.PostalCode.String(),
				"eventType", event.EventType(),
			)
		}
	}()
}

func (s *ShippingQuoteService) recordQuote(outcome, region string) {
	if s.metrics != nil {
		s.metrics.RecordShippingQuote(outcome, region)
	}
}

func messageOf(err error) string {
	if msg := domain.MessageOf(err); msg != "" {
		return msg
	}
	return domain.MsgQuoteFailed
}
