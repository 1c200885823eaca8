package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Price is the price cell of a row. Empty cells and cells holding a zero or
// negative amount are unpriced. A non-numeric cell such as "Sur devis" is
// priced without an amount and is quoted by its Label.
type Price struct {
	Raw    string
	Amount decimal.Decimal
	// Label is set for priced cells that carry text instead of an amount
	Label string
	valid bool
}

// NoPrice is the unpriced value
var NoPrice = Price{}

// ParsePrice converts a price cell such as "89", "89,90" or "129.00 €"
func ParsePrice(raw string) Price {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "0" {
		return Price{Raw: trimmed}
	}

	cleaned := strings.NewReplacer("€", "", "EUR", "", " ", "", "\u00a0", "").Replace(trimmed)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Price{Raw: trimmed, Label: trimmed, valid: true}
	}
	if !amount.IsPositive() {
		return Price{Raw: trimmed}
	}

	return Price{Raw: trimmed, Amount: amount, valid: true}
}

// NewPrice builds a valid price from an amount; non-positive amounts are unpriced
func NewPrice(amount decimal.Decimal) Price {
	if !amount.IsPositive() {
		return Price{Raw: amount.String()}
	}
	return Price{Raw: amount.String(), Amount: amount, valid: true}
}

// IsValid reports whether the price can be quoted
func (p Price) IsValid() bool {
	return p.valid
}

// HasAmount reports whether the price is a numeric amount
func (p Price) HasAmount() bool {
	return p.valid && p.Label == ""
}

// String returns the amount or label for display, or an empty string when unpriced
func (p Price) String() string {
	if !p.valid {
		return ""
	}
	if p.Label != "" {
		return p.Label
	}
	return p.Amount.String()
}
