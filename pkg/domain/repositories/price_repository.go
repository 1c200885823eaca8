package repositories

import (
	"context"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

// PriceRepository provides read access to the immutable price dataset
type PriceRepository interface {
	// Rows returns every row in dataset order
	Rows() []entities.PriceRow
	// ValidRows returns the rows that participate in filtering: priced rows,
	// or every row when the dataset is degraded
	ValidRows() []entities.PriceRow
	// Degraded reports whether the dataset has no usable price column or no rows
	Degraded() bool
	// DegradedReason explains a degraded dataset, "" otherwise
	DegradedReason() string
	// FirstExactMatch returns the first row in dataset order whose five
	// fields equal the selections, priced or not
	FirstExactMatch(s entities.Selections) (*entities.PriceRow, bool)
	Len() int
}

// PriceTableSource loads the raw price table from an external store
type PriceTableSource interface {
	LoadTable(ctx context.Context) (*entities.PriceTable, error)
}
