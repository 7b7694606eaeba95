package kafka

import (
	"time"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers  []string
	ClientID string

	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: none, 1: leader, -1: all replicas
	WriteTimeout time.Duration
	// Async makes WriteMessages return immediately; delivery errors then
	// surface only through the writer's Completion callback.
	Async bool
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "storefront-shipping",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: 1,
		WriteTimeout: 5 * time.Second,
		Async:        false,
	}
}

// Topics contains the storefront topic names
var Topics = struct {
	ShippingEvents string
}{
	ShippingEvents: "storefront.shipping.events",
}
