package services

import (
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

// Selector modes
const (
	ModeFiltering   = "filtering"
	ModePassThrough = "pass-through"
)

// SelectionResult reports what an ApplySelection call did
type SelectionResult struct {
	Field    entities.Field
	Value    string
	Accepted bool
	// Cleared lists the fields emptied by cascading invalidation, most
	// dependent first
	Cleared []entities.Field
}

// Selector is the selection strategy chosen once when a configurator is built
type Selector interface {
	// ComputeAvailable returns, per field, the values consistent with every
	// other assigned field
	ComputeAvailable(s entities.Selections) entities.AvailableOptions
	// Selectable returns, per field, the values ApplySelection would accept.
	// It may be wider than ComputeAvailable: an earlier step accepts values
	// that later steps conflict with, and the cascade then clears those steps.
	Selectable(s entities.Selections) entities.AvailableOptions
	// ApplySelection sets a field when the value is selectable, then
	// reconciles the remaining selections. Rejected calls leave s untouched
	// and return an *entities.InvalidSelectionError.
	ApplySelection(s *entities.Selections, f entities.Field, value string) (SelectionResult, error)
	Resolve(s entities.Selections) entities.PriceOutcome
	Mode() string
}

// addDistinct collects the value of f from every row matching constraint
func addDistinct(set entities.OptionSet, rows []entities.PriceRow, f entities.Field, constraint entities.Selections) {
	for i := range rows {
		if rows[i].Matches(constraint) {
			set.Add(rows[i].Value(f))
		}
	}
}
