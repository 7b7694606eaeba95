package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RegionRateTable maps a UF to its base shipping fee. Regions without an
// entry are charged the fallback fee. The table is immutable.
type RegionRateTable struct {
	rates    map[string]decimal.Decimal
	fallback decimal.Decimal
}

// NewRegionRateTable copies rates, normalizing every key
func NewRegionRateTable(rates map[string]decimal.Decimal, fallback decimal.Decimal) RegionRateTable {
	copied := make(map[string]decimal.Decimal, len(rates))
	for uf, fee := range rates {
		copied[NormalizeRegion(uf)] = fee
	}
	return RegionRateTable{rates: copied, fallback: fallback}
}

// Rate returns the fee for uf and whether uf had its own entry
func (t RegionRateTable) Rate(uf string) (decimal.Decimal, bool) {
	if fee, ok := t.rates[NormalizeRegion(uf)]; ok {
		return fee, true
	}
	return t.fallback, false
}

// Fallback returns the fee charged to unmapped regions
func (t RegionRateTable) Fallback() decimal.Decimal {
	return t.fallback
}

// Regions returns the mapped UFs in lexical order
func (t RegionRateTable) Regions() []string {
	regions := make([]string, 0, len(t.rates))
	for uf := range t.rates {
		regions = append(regions, uf)
	}
	sort.Strings(regions)
	return regions
}

// Len returns the number of mapped regions
func (t RegionRateTable) Len() int {
	return len(t.rates)
}
