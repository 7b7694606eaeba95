package events

import (
	"context"
	"time"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/cloudevents"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/kafka"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
)

// EventProducer is the subset of *kafka.Producer the publisher uses
type EventProducer interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.StorefrontCloudEvent) error
}

// QuotePublisher turns quote domain events into CloudEvents on Kafka
type QuotePublisher struct {
	producer EventProducer
	factory  *cloudevents.EventFactory
	topic    string
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewQuotePublisher creates a publisher for the shipping events topic. m may be nil.
func NewQuotePublisher(producer EventProducer, m *metrics.Metrics, logger *logging.Logger) *QuotePublisher {
	return &QuotePublisher{
		producer: producer,
		factory:  cloudevents.NewEventFactory(cloudevents.SourceShippingQuote),
		topic:    kafka.Topics.ShippingEvents,
		metrics:  m,
		logger:   logger,
	}
}

// PublishQuoteCalculated implements domain.QuoteEventPublisher
func (p *QuotePublisher) PublishQuoteCalculated(ctx context.Context, event *domain.QuoteCalculatedEvent) error {
	quote := event.Quote
	ce := p.factory.CreateQuoteCalculatedEvent(ctx, cloudevents.QuoteCalculatedData{
		PostalCode:            quote.PostalCode.String(),
		State:                 quote.Address.State,
		City:                  quote.Address.City,
		CartTotal:             event.CartTotal.InexactFloat64(),
		Cost:                  quote.Cost.InexactFloat64(),
		IsFreeShipping:        quote.IsFreeShipping,
		FreeShippingThreshold: quote.FreeShippingThreshold.InexactFloat64(),
		EstimatedDays:         quote.EstimatedDays,
		RateFallback:          quote.RateFallback,
	})
	ce.Time = event.OccurredAt()

	start := time.Now()
	err := p.producer.PublishEvent(ctx, p.topic, ce)
	duration := time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(p.topic, ce.Type, err == nil, duration)
	}
	p.logger.KafkaPublish(ctx, p.topic, ce.Type, err == nil, duration)

	return err
}
