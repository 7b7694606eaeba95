package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionRateTableIsACopy(t *testing.T) {
	input := map[string]decimal.Decimal{"pr": decimal.RequireFromString("15.90")}
	table := NewRegionRateTable(input, decimal.RequireFromString("45.90"))

	input["PR"] = decimal.RequireFromString("1.00")
	input["SC"] = decimal.RequireFromString("1.00")

	fee, known := table.Rate("PR")
	assert.True(t, known)
	assert.Equal(t, "15.9", fee.String())

	fee, known = table.Rate("SC")
	assert.False(t, known)
	assert.Equal(t, "45.9", fee.String())
	assert.Equal(t, []string{"PR"}, table.Regions())
}

func TestDefaultPolicyRates(t *testing.T) {
	policy := DefaultShippingPolicy()

	assert.Equal(t, 27, policy.Rates.Len())
	assert.True(t, policy.FreeShippingThreshold.Equal(decimal.RequireFromString("299.90")))
	assert.True(t, policy.Rates.Fallback().Equal(decimal.RequireFromString("45.90")))

	tests := map[string]string{
		"PR": "15.90", "SP": "25.90", "DF": "32.90", "BA": "39.90",
		"PI": "48.90", "AM": "58.90", "RO": "52.90",
	}
	for uf, want := range tests {
		fee, known := policy.Rates.Rate(uf)
		assert.True(t, known, uf)
		assert.True(t, fee.Equal(decimal.RequireFromString(want)), uf)
	}
}

func TestDefaultPolicyTiers(t *testing.T) {
	tiers := DefaultShippingPolicy().Tiers

	tests := []struct {
		uf   string
		name string
		days string
	}{
		{"PR", TierHome, "3-5 dias úteis"},
		{"rs", TierHome, "3-5 dias úteis"},
		{"MG", TierNearby, "5-7 dias úteis"},
		{"DF", TierMid, "7-10 dias úteis"},
		{"BA", TierRemote, "10-15 dias úteis"},
		{"XX", TierRemote, "10-15 dias úteis"},
		{"", TierRemote, "10-15 dias úteis"},
	}

	for _, tt := range tests {
		t.Run(tt.uf, func(t *testing.T) {
			tier := tiers.Estimate(tt.uf)
			assert.Equal(t, tt.name, tier.Name)
			assert.Equal(t, tt.days, tier.Label)
		})
	}
}

func TestNewDeliveryTierTableValidation(t *testing.T) {
	tests := []struct {
		name  string
		tiers []DeliveryTier
	}{
		{"empty", nil},
		{"no catch-all", []DeliveryTier{{Name: "a", Label: "1 dia", Regions: []string{"PR"}}}},
		{"duplicate region", []DeliveryTier{
			{Name: "a", Label: "1", Regions: []string{"PR"}},
			{Name: "b", Label: "2", Regions: []string{"pr"}},
			{Name: "c", Label: "3"},
		}},
		{"empty label", []DeliveryTier{{Name: "a", Label: ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeliveryTierTable(tt.tiers)
			assert.Error(t, err)
		})
	}
}

func TestDeliveryTierTableTiersIsACopy(t *testing.T) {
	tiers := DefaultShippingPolicy().Tiers
	out := tiers.Tiers()
	require.Len(t, out, 4)

	out[0].Regions[0] = "AM"
	assert.Equal(t, TierHome, tiers.Estimate("PR").Name)
	assert.Equal(t, TierRemote, tiers.Estimate("AM").Name)
}
