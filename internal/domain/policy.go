package domain

import (
	"github.com/shopspring/decimal"
)

// Tier names of the default policy
const (
	TierHome   = "home"
	TierNearby = "nearby"
	TierMid    = "mid-distance"
	TierRemote = "remote"
)

// ShippingPolicy is the static configuration an Estimator applies
type ShippingPolicy struct {
	Rates                 RegionRateTable
	Tiers                 DeliveryTierTable
	FreeShippingThreshold decimal.Decimal
}

// DefaultShippingPolicy returns the policy for shipments dispatched from Paraná
func DefaultShippingPolicy() ShippingPolicy {
	rates := map[string]string{
		"PR": "15.90", "SC": "18.90", "RS": "22.90",
		"SP": "25.90", "RJ": "29.90", "MG": "28.90", "ES": "29.90",
		"MS": "32.90", "MT": "35.90", "GO": "32.90", "DF": "32.90",
		"BA": "39.90", "SE": "42.90", "AL": "42.90", "PE": "42.90",
		"PB": "45.90", "RN": "45.90", "CE": "45.90", "PI": "48.90",
		"MA": "48.90", "TO": "42.90",
		"PA": "52.90", "AP": "55.90", "AM": "58.90", "RR": "58.90",
		"AC": "58.90", "RO": "52.90",
	}

	fees := make(map[string]decimal.Decimal, len(rates))
	for uf, fee := range rates {
		fees[uf] = decimal.RequireFromString(fee)
	}

	tiers, err := NewDeliveryTierTable([]DeliveryTier{
		{Name: TierHome, Label: "3-5 dias úteis", Regions: []string{"PR", "SC", "RS"}},
		{Name: TierNearby, Label: "5-7 dias úteis", Regions: []string{"SP", "RJ", "MG", "ES"}},
		{Name: TierMid, Label: "7-10 dias úteis", Regions: []string{"MS", "MT", "GO", "DF"}},
		{Name: TierRemote, Label: "10-15 dias úteis"},
	})
	if err != nil {
		panic(err)
	}

	return ShippingPolicy{
		Rates:                 NewRegionRateTable(fees, decimal.RequireFromString("45.90")),
		Tiers:                 tiers,
		FreeShippingThreshold: decimal.RequireFromString("299.90"),
	}
}
