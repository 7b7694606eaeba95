package domain

import (
	"github.com/shopspring/decimal"
)

// ShippingQuote is the result of one estimation
type ShippingQuote struct {
	PostalCode            PostalCode
	Address               ResolvedAddress
	Cost                  decimal.Decimal
	IsFreeShipping        bool
	FreeShippingThreshold decimal.Decimal
	EstimatedDays         string
	DeliveryTier          string
	// AmountForFreeShipping is zero when IsFreeShipping.
	AmountForFreeShipping decimal.Decimal
	// RateFallback is set when the region had no entry in the rate table.
	RateFallback bool
}
