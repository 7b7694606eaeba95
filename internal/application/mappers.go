package application

import (
	"github.com/shopspring/decimal"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
)

// ToQuoteDTO converts a domain ShippingQuote to QuoteDTO
func ToQuoteDTO(quote *domain.ShippingQuote) *QuoteDTO {
	if quote == nil {
		return nil
	}

	return &QuoteDTO{
		CEP:     quote.PostalCode.String(),
		Address: ToAddressDTO(quote.Address),
		Shipping: ShippingDTO{
			Cost:                  money(quote.Cost),
			IsFreeShipping:        quote.IsFreeShipping,
			FreeShippingThreshold: money(quote.FreeShippingThreshold),
			EstimatedDays:         quote.EstimatedDays,
			AmountForFreeShipping: moneyUp(quote.AmountForFreeShipping),
		},
	}
}

// ToAddressDTO converts a domain ResolvedAddress to AddressDTO
func ToAddressDTO(address domain.ResolvedAddress) AddressDTO {
	return AddressDTO{
		Street:       address.Street,
		Neighborhood: address.Neighborhood,
		City:         address.City,
		State:        address.State,
	}
}

// ToPolicyDTO converts a domain ShippingPolicy to PolicyDTO
func ToPolicyDTO(policy domain.ShippingPolicy) *PolicyDTO {
	regions := policy.Rates.Regions()
	rates := make(map[string]float64, len(regions))
	for _, uf := range regions {
		fee, _ := policy.Rates.Rate(uf)
		rates[uf] = money(fee)
	}

	tiers := policy.Tiers.Tiers()
	tierDTOs := make([]DeliveryTierDTO, 0, len(tiers))
	for _, tier := range tiers {
		regions := tier.Regions
		if regions == nil {
			regions = []string{}
		}
		tierDTOs = append(tierDTOs, DeliveryTierDTO{
			Name:          tier.Name,
			EstimatedDays: tier.Label,
			Regions:       regions,
		})
	}

	return &PolicyDTO{
		Rates:                 rates,
		FallbackRate:          money(policy.Rates.Fallback()),
		FreeShippingThreshold: money(policy.FreeShippingThreshold),
		Tiers:                 tierDTOs,
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// moneyUp rounds toward the next cent so a non-zero remainder never renders as 0.
func moneyUp(d decimal.Decimal) float64 {
	return d.RoundCeil(2).InexactFloat64()
}
