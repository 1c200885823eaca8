package entities

import "github.com/shopspring/decimal"

// PriceStatus classifies a price resolution
type PriceStatus int

const (
	Unavailable PriceStatus = iota
	Priced
)

// String method for PriceStatus enum
func (s PriceStatus) String() string {
	switch s {
	case Priced:
		return "priced"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// PriceOutcome is the result of resolving a complete set of selections
type PriceOutcome struct {
	Status PriceStatus
	Amount decimal.Decimal
	// Label replaces Amount for rows priced with text, e.g. "Sur devis"
	Label string
	// Row is the first matching row, nil when no row matches
	Row *PriceRow
}

// PricedOutcome builds a priced outcome for a row
func PricedOutcome(row *PriceRow) PriceOutcome {
	return PriceOutcome{Status: Priced, Amount: row.Price.Amount, Label: row.Price.Label, Row: row}
}

// UnavailableOutcome builds an unavailable outcome; row may be nil
func UnavailableOutcome(row *PriceRow) PriceOutcome {
	return PriceOutcome{Status: Unavailable, Row: row}
}

// IsPriced reports whether the outcome can be quoted
func (o PriceOutcome) IsPriced() bool {
	return o.Status == Priced
}

// HasAmount reports whether a priced outcome carries a numeric amount
func (o PriceOutcome) HasAmount() bool {
	return o.IsPriced() && o.Label == ""
}

// Display returns the amount followed by currency, the label for text
// prices, or "" when unavailable
func (o PriceOutcome) Display(currency string) string {
	switch {
	case !o.IsPriced():
		return ""
	case o.Label != "":
		return o.Label
	default:
		return o.Amount.String() + " " + currency
	}
}

// Quote is a resolved price decorated for display and booking
type Quote struct {
	Selections   Selections
	Outcome      PriceOutcome
	TimeEstimate string
}

// DeviceLabel returns "brand series model"
func (q Quote) DeviceLabel() string {
	return joinNonEmpty(q.Selections.Get(Brand), q.Selections.Get(Series), q.Selections.Get(Model))
}
