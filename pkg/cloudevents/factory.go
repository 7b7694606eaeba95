package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
)

// EventFactory creates CloudEvents for one source
type EventFactory struct {
	source string
	now    func() time.Time
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source, now: time.Now}
}

// CreateEvent builds an event, copying the correlation ID and W3C trace
// context found in ctx into extension attributes.
func (f *EventFactory) CreateEvent(ctx context.Context, eventType, subject string, data interface{}) *StorefrontCloudEvent {
	event := &StorefrontCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	if id, ok := ctx.Value(logging.CorrelationIDKey).(string); ok {
		event.CorrelationID = id
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event.TraceParent = carrier.Get("traceparent")
	event.TraceState = carrier.Get("tracestate")

	return event
}

// CreateQuoteCalculatedEvent creates a ShippingQuoteCalculated event keyed by CEP
func (f *EventFactory) CreateQuoteCalculatedEvent(ctx context.Context, data QuoteCalculatedData) *StorefrontCloudEvent {
	return f.CreateEvent(ctx, ShippingQuoteCalculated, "cep/"+data.PostalCode, data)
}
