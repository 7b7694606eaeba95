package ratetable

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
)

//go:embed default_policy.yaml
var defaultPolicy []byte

// policyFile is the on-disk representation of a shipping policy. Amounts
// are strings so YAML never rounds them through float64.
type policyFile struct {
	FreeShippingThreshold string            `yaml:"freeShippingThreshold" validate:"required,numeric"`
	FallbackRate          string            `yaml:"fallbackRate" validate:"required,numeric"`
	Rates                 map[string]string `yaml:"rates" validate:"required,min=1,dive,keys,uf,endkeys,required,numeric"`
	Tiers                 []tierFile        `yaml:"tiers" validate:"len=4,dive"`
}

type tierFile struct {
	Name          string   `yaml:"name" validate:"required"`
	EstimatedDays string   `yaml:"estimatedDays" validate:"required"`
	Regions       []string `yaml:"regions" validate:"dive,uf"`
}

// LoadDefault returns the embedded policy
func LoadDefault() (domain.ShippingPolicy, error) {
	return Parse(defaultPolicy)
}

// LoadFile reads a policy from path. An empty path yields the embedded policy.
func LoadFile(path string) (domain.ShippingPolicy, error) {
	if path == "" {
		return LoadDefault()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ShippingPolicy{}, fmt.Errorf("failed to read shipping policy %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML policy
func Parse(data []byte) (domain.ShippingPolicy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.ShippingPolicy{}, fmt.Errorf("failed to decode shipping policy: %w", err)
	}

	if err := validatePolicy(&file); err != nil {
		return domain.ShippingPolicy{}, err
	}

	return toDomain(&file)
}

func toDomain(file *policyFile) (domain.ShippingPolicy, error) {
	threshold, err := nonNegative("freeShippingThreshold", file.FreeShippingThreshold)
	if err != nil {
		return domain.ShippingPolicy{}, err
	}
	fallback, err := nonNegative("fallbackRate", file.FallbackRate)
	if err != nil {
		return domain.ShippingPolicy{}, err
	}

	rates := make(map[string]decimal.Decimal, len(file.Rates))
	for uf, raw := range file.Rates {
		fee, err := nonNegative("rates."+uf, raw)
		if err != nil {
			return domain.ShippingPolicy{}, err
		}
		rates[uf] = fee
	}

	tiers := make([]domain.DeliveryTier, len(file.Tiers))
	for i, t := range file.Tiers {
		tiers[i] = domain.DeliveryTier{Name: t.Name, Label: t.EstimatedDays, Regions: t.Regions}
	}
	tierTable, err := domain.NewDeliveryTierTable(tiers)
	if err != nil {
		return domain.ShippingPolicy{}, fmt.Errorf("invalid shipping policy: %w", err)
	}

	return domain.ShippingPolicy{
		Rates:                 domain.NewRegionRateTable(rates, fallback),
		Tiers:                 tierTable,
		FreeShippingThreshold: threshold,
	}, nil
}

func nonNegative(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid shipping policy: %s: %w", field, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid shipping policy: %s must not be negative", field)
	}
	return value, nil
}
