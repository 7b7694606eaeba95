package application

import "github.com/shopspring/decimal"

// CalculateQuoteCommand asks for the shipping quote of a cart to a postal code
type CalculateQuoteCommand struct {
	PostalCode string
	CartTotal  decimal.Decimal
}
