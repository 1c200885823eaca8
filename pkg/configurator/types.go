package configurator

import (
	"github.com/vsinha/repair-configurator/pkg/application/dto"
	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

// Field is one step of the configurator
type Field = entities.Field

// The five steps, in order
const (
	Repair  = entities.Repair
	Quality = entities.Quality
	Brand   = entities.Brand
	Series  = entities.Series
	Model   = entities.Model
)

// PriceRow is one line of the price list
type PriceRow = entities.PriceRow

// Selections holds the chosen value of each step
type Selections = entities.Selections

// Quote is the outcome of a complete selection
type Quote = entities.Quote

// SelectionResult reports what an ApplySelection call did
type SelectionResult = services.SelectionResult

// StateView is the serialisable session snapshot
type StateView = dto.StateView

// Settings tunes filtering, sorting and time estimates
type Settings = services.ConfiguratorConfig

// Errors surfaced by the session
var (
	ErrInvalidSelection     = entities.ErrInvalidSelection
	ErrIncompleteSelections = entities.ErrIncompleteSelections
	ErrUnknownField         = entities.ErrUnknownField
	ErrNilDataset           = entities.ErrNilDataset
)

// NewRow builds a price row from raw spreadsheet values
func NewRow(repair, quality, brand, series, model, price string) PriceRow {
	return PriceRow{
		Repair:  repair,
		Quality: quality,
		Brand:   brand,
		Series:  series,
		Model:   model,
		Price:   entities.ParsePrice(price),
	}
}

// DefaultSettings returns filtering enabled with the shop's sort rules
func DefaultSettings() Settings {
	return services.DefaultConfiguratorConfig()
}
