package application

// QuoteDTO is the checkout-facing view of a shipping quote
type QuoteDTO struct {
	CEP      string      `json:"cep"`
	Address  AddressDTO  `json:"address"`
	Shipping ShippingDTO `json:"shipping"`
}

// AddressDTO represents the resolved destination
type AddressDTO struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// ShippingDTO carries the priced shipment. Amounts are rounded to cents.
type ShippingDTO struct {
	Cost                  float64 `json:"cost"`
	IsFreeShipping        bool    `json:"isFreeShipping"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	EstimatedDays         string  `json:"estimatedDays"`
	AmountForFreeShipping float64 `json:"amountForFreeShipping"`
}

// PolicyDTO exposes the static shipping policy
type PolicyDTO struct {
	Rates                 map[string]float64 `json:"rates"`
	FallbackRate          float64            `json:"fallbackRate"`
	FreeShippingThreshold float64            `json:"freeShippingThreshold"`
	Tiers                 []DeliveryTierDTO  `json:"tiers"`
}

// DeliveryTierDTO represents one delivery-time bucket
type DeliveryTierDTO struct {
	Name          string   `json:"name"`
	EstimatedDays string   `json:"estimatedDays"`
	Regions       []string `json:"regions"`
}
