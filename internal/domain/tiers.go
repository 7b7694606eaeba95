package domain

import (
	"errors"
	"fmt"
)

// DeliveryTier is a coarse delivery-time bucket
type DeliveryTier struct {
	Name    string   `json:"name"`
	Label   string   `json:"estimatedDays"`
	Regions []string `json:"regions,omitempty"`
}

// DeliveryTierTable resolves a UF to its tier. Tiers are consulted in order;
// the last one is the catch-all and lists no regions.
type DeliveryTierTable struct {
	tiers    []DeliveryTier
	byRegion map[string]int
}

// NewDeliveryTierTable validates and copies tiers
func NewDeliveryTierTable(tiers []DeliveryTier) (DeliveryTierTable, error) {
	if len(tiers) == 0 {
		return DeliveryTierTable{}, errors.New("at least one delivery tier is required")
	}
	if last := tiers[len(tiers)-1]; len(last.Regions) != 0 {
		return DeliveryTierTable{}, fmt.Errorf("last delivery tier %q must be the catch-all and list no regions", last.Name)
	}

	copied := make([]DeliveryTier, len(tiers))
	byRegion := make(map[string]int)
	for i, tier := range tiers {
		if tier.Label == "" {
			return DeliveryTierTable{}, fmt.Errorf("delivery tier %q has an empty label", tier.Name)
		}

		regions := make([]string, len(tier.Regions))
		for j, uf := range tier.Regions {
			uf = NormalizeRegion(uf)
			if prev, dup := byRegion[uf]; dup {
				return DeliveryTierTable{}, fmt.Errorf("region %s listed in tiers %q and %q", uf, tiers[prev].Name, tier.Name)
			}
			byRegion[uf] = i
			regions[j] = uf
		}

		copied[i] = DeliveryTier{Name: tier.Name, Label: tier.Label, Regions: regions}
	}

	return DeliveryTierTable{tiers: copied, byRegion: byRegion}, nil
}

// Estimate returns the tier for uf, falling back to the catch-all
func (t DeliveryTierTable) Estimate(uf string) DeliveryTier {
	if i, ok := t.byRegion[NormalizeRegion(uf)]; ok {
		return t.tiers[i]
	}
	return t.tiers[len(t.tiers)-1]
}

// Tiers returns a copy of the tiers in order
func (t DeliveryTierTable) Tiers() []DeliveryTier {
	out := make([]DeliveryTier, len(t.tiers))
	for i, tier := range t.tiers {
		out[i] = DeliveryTier{Name: tier.Name, Label: tier.Label, Regions: append([]string(nil), tier.Regions...)}
	}
	return out
}
