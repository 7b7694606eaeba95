package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DomainEvent is implemented by events the application layer publishes
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// QuoteCalculatedEvent is raised after a successful estimation
type QuoteCalculatedEvent struct {
	Quote      ShippingQuote
	CartTotal  decimal.Decimal
	occurredAt time.Time
}

// NewQuoteCalculatedEvent records quote at the current time
func NewQuoteCalculatedEvent(quote ShippingQuote, cartTotal decimal.Decimal) *QuoteCalculatedEvent {
	return &QuoteCalculatedEvent{Quote: quote, CartTotal: cartTotal, occurredAt: time.Now().UTC()}
}

// EventType returns the CloudEvents type
func (e *QuoteCalculatedEvent) EventType() string {
	return "storefront.shipping.quote-calculated"
}

// OccurredAt returns when the quote was produced
func (e *QuoteCalculatedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// QuoteEventPublisher publishes quote events (port)
type QuoteEventPublisher interface {
	PublishQuoteCalculated(ctx context.Context, event *QuoteCalculatedEvent) error
}
