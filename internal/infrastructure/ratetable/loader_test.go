package ratetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
)

const minimalPolicy = `
freeShippingThreshold: "100.00"
fallbackRate: "20.00"
rates:
  PR: "10.00"
tiers:
  - {name: a, estimatedDays: "1 dia", regions: [PR]}
  - {name: b, estimatedDays: "2 dias", regions: [SC]}
  - {name: c, estimatedDays: "3 dias", regions: [SP]}
  - {name: d, estimatedDays: "4 dias"}
`

func TestLoadDefaultMatchesDomainDefault(t *testing.T) {
	loaded, err := LoadDefault()
	require.NoError(t, err)

	want := domain.DefaultShippingPolicy()
	assert.Equal(t, want.Rates.Regions(), loaded.Rates.Regions())
	for _, uf := range want.Rates.Regions() {
		wantFee, _ := want.Rates.Rate(uf)
		gotFee, known := loaded.Rates.Rate(uf)
		assert.True(t, known, uf)
		assert.True(t, wantFee.Equal(gotFee), uf)
	}
	assert.True(t, want.Rates.Fallback().Equal(loaded.Rates.Fallback()))
	assert.True(t, want.FreeShippingThreshold.Equal(loaded.FreeShippingThreshold))
	assert.Equal(t, want.Tiers.Tiers(), loaded.Tiers.Tiers())
}

func TestParseMinimalPolicy(t *testing.T) {
	policy, err := Parse([]byte(minimalPolicy))
	require.NoError(t, err)

	fee, known := policy.Rates.Rate("PR")
	assert.True(t, known)
	assert.Equal(t, "10", fee.String())
	assert.Equal(t, "d", policy.Tiers.Estimate("AM").Name)
}

func TestParseRejectsInvalidPolicies(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "rates: [unterminated"},
		{"missing threshold", `
fallbackRate: "1"
rates: {PR: "1"}
tiers: [{name: a, estimatedDays: x}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}, {name: d, estimatedDays: x}]
`},
		{"lowercase region key", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {pr: "1"}
tiers: [{name: a, estimatedDays: x}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}, {name: d, estimatedDays: x}]
`},
		{"non numeric rate", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {PR: "cheap"}
tiers: [{name: a, estimatedDays: x}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}, {name: d, estimatedDays: x}]
`},
		{"negative rate", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {PR: "-1"}
tiers: [{name: a, estimatedDays: x}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}, {name: d, estimatedDays: x}]
`},
		{"negative threshold", `
freeShippingThreshold: "-5"
fallbackRate: "1"
rates: {PR: "1"}
tiers: [{name: a, estimatedDays: x}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}, {name: d, estimatedDays: x}]
`},
		{"three tiers", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {PR: "1"}
tiers: [{name: a, estimatedDays: x}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}]
`},
		{"empty label", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {PR: "1"}
tiers: [{name: a, estimatedDays: x, regions: [PR]}, {name: b, estimatedDays: x, regions: [SC]}, {name: c, estimatedDays: "", regions: [SP]}, {name: d, estimatedDays: x}]
`},
		{"invalid tier region", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {PR: "1"}
tiers: [{name: a, estimatedDays: x, regions: [Parana]}, {name: b, estimatedDays: x}, {name: c, estimatedDays: x}, {name: d, estimatedDays: x}]
`},
		{"catch-all lists regions", `
freeShippingThreshold: "1"
fallbackRate: "1"
rates: {PR: "1"}
tiers: [{name: a, estimatedDays: x, regions: [PR]}, {name: b, estimatedDays: x, regions: [SC]}, {name: c, estimatedDays: x, regions: [SP]}, {name: d, estimatedDays: x, regions: [AM]}]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalPolicy), 0o600))

	policy, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, policy.Rates.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	policy, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 27, policy.Rates.Len())
}
