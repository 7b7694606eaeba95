package domain

import (
	"context"
	"errors"
	"strings"
)

// ErrAddressNotFound is returned by AddressLookup when the postal code does not exist
var ErrAddressNotFound = errors.New("address not found")

// ResolvedAddress is the destination a postal code maps to
type ResolvedAddress struct {
	Street       string `json:"street" bson:"street"`
	Neighborhood string `json:"neighborhood" bson:"neighborhood"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
}

// NormalizeRegion upper-cases and trims a UF code
func NormalizeRegion(uf string) string {
	return strings.ToUpper(strings.TrimSpace(uf))
}

// AddressLookup resolves a postal code to an address (port).
// Implementations return ErrAddressNotFound, possibly wrapped, for unknown codes;
// any other error is treated as the service being unavailable.
type AddressLookup interface {
	Lookup(ctx context.Context, code PostalCode) (*ResolvedAddress, error)
}

// AddressLookupFunc adapts a function to AddressLookup
type AddressLookupFunc func(ctx context.Context, code PostalCode) (*ResolvedAddress, error)

// Lookup calls f
func (f AddressLookupFunc) Lookup(ctx context.Context, code PostalCode) (*ResolvedAddress, error) {
	return f(ctx, code)
}
