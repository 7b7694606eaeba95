package cloudevents

import (
	"time"
)

// Event types
const (
	ShippingQuoteCalculated = "storefront.shipping.quote-calculated"
)

// Event sources
const (
	SourceShippingQuote = "/storefront/shipping-quote-service"
)

// StorefrontCloudEvent is a CloudEvents v1.0 structured-mode envelope
type StorefrontCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Extensions
	CorrelationID string `json:"correlationid,omitempty"`
	TraceParent   string `json:"traceparent,omitempty"`
	TraceState    string `json:"tracestate,omitempty"`
}

// QuoteCalculatedData is the payload of ShippingQuoteCalculated
type QuoteCalculatedData struct {
	PostalCode            string  `json:"cep"`
	State                 string  `json:"state"`
	City                  string  `json:"city"`
	CartTotal             float64 `json:"cartTotal"`
	Cost                  float64 `json:"cost"`
	IsFreeShipping        bool    `json:"isFreeShipping"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	EstimatedDays         string  `json:"estimatedDays"`
	RateFallback          bool    `json:"rateFallback"`
}
