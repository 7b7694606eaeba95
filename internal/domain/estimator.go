package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Estimator computes shipping quotes. It holds no mutable state and is safe
// for concurrent use.
type Estimator struct {
	lookup AddressLookup
	policy ShippingPolicy
}

// NewEstimator creates an Estimator
func NewEstimator(lookup AddressLookup, policy ShippingPolicy) *Estimator {
	return &Estimator{lookup: lookup, policy: policy}
}

// Policy returns the policy the estimator applies
func (e *Estimator) Policy() ShippingPolicy {
	return e.policy
}

// Estimate validates the postal code, resolves it and prices the shipment.
// Invalid input never reaches the lookup. Errors are always *EstimateError.
func (e *Estimator) Estimate(ctx context.Context, postalCode string, cartSubtotal decimal.Decimal) (*ShippingQuote, error) {
	code, err := ParsePostalCode(postalCode)
	if err != nil {
		return nil, err
	}
	if cartSubtotal.IsNegative() {
		return nil, newInvalidInput(MsgCartTotalInvalid)
	}

	address, err := e.lookup.Lookup(ctx, code)
	switch {
	case errors.Is(err, ErrAddressNotFound):
		return nil, newNotFound()
	case err != nil:
		return nil, newUpstreamUnavailable(err)
	case address == nil:
		return nil, newUpstreamUnavailable(errors.New("lookup returned no address"))
	}

	resolved := *address
	resolved.State = NormalizeRegion(resolved.State)

	return e.price(code, resolved, cartSubtotal), nil
}

func (e *Estimator) price(code PostalCode, address ResolvedAddress, subtotal decimal.Decimal) *ShippingQuote {
	threshold := e.policy.FreeShippingThreshold
	fee, known := e.policy.Rates.Rate(address.State)
	tier := e.policy.Tiers.Estimate(address.State)

	quote := &ShippingQuote{
		PostalCode:            code,
		Address:               address,
		Cost:                  fee,
		FreeShippingThreshold: threshold,
		EstimatedDays:         tier.Label,
		DeliveryTier:          tier.Name,
		AmountForFreeShipping: decimal.Zero,
		RateFallback:          !known,
	}

	if subtotal.GreaterThanOrEqual(threshold) {
		quote.IsFreeShipping = true
		quote.Cost = decimal.Zero
		return quote
	}

	quote.AmountForFreeShipping = decimal.Max(decimal.Zero, threshold.Sub(subtotal))
	return quote
}
