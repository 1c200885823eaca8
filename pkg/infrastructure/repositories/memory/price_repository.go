package memory

import (
	"slices"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
	"github.com/vsinha/repair-configurator/pkg/domain/services"
)

// Degradation reasons reported by PriceRepository.DegradedReason
const (
	ReasonEmptyDataset  = "dataset is empty"
	ReasonNoPriceColumn = "no price column identified"
)

// PriceRepository provides immutable in-memory price storage
type PriceRepository struct {
	rows      []entities.PriceRow
	validRows []entities.PriceRow
	hasPrice  bool
}

// Verify interface compliance
var _ repositories.PriceRepository = (*PriceRepository)(nil)

// NewPriceRepository stores rows in dataset order. hasPriceColumn=false puts
// the repository in degraded mode, where every row counts as valid.
func NewPriceRepository(rows []entities.PriceRow, hasPriceColumn bool) *PriceRepository {
	stored := slices.Clone(rows)
	r := &PriceRepository{
		rows:     stored,
		hasPrice: hasPriceColumn,
	}

	if r.Degraded() {
		r.validRows = stored
		return r
	}

	r.validRows = make([]entities.PriceRow, 0, len(stored))
	for _, row := range stored {
		if row.Price.IsValid() {
			r.validRows = append(r.validRows, row)
		}
	}
	return r
}

// NewPriceRepositoryFromTable maps a raw table onto price rows. Records
// shorter than the header contribute "" for the missing cells.
func NewPriceRepositoryFromTable(table *entities.PriceTable, mapper *services.ColumnMapper) (*PriceRepository, error) {
	if table == nil {
		return nil, entities.ErrNilDataset
	}

	mapping := mapper.Resolve(table.Header)

	rows := make([]entities.PriceRow, 0, len(table.Records))
	for _, record := range table.Records {
		row := entities.PriceRow{
			Repair:  table.Cell(record, mapping.Repair),
			Quality: table.Cell(record, mapping.Quality),
			Brand:   table.Cell(record, mapping.Brand),
			Series:  table.Cell(record, mapping.Series),
			Model:   table.Cell(record, mapping.Model),
		}
		if mapping.Price != "" {
			row.Price = entities.ParsePrice(table.Cell(record, mapping.Price))
		}
		rows = append(rows, row)
	}

	return NewPriceRepository(rows, mapping.Price != ""), nil
}

// Rows returns a copy of every row in dataset order
func (r *PriceRepository) Rows() []entities.PriceRow {
	return slices.Clone(r.rows)
}

// ValidRows returns the rows that participate in filtering. The returned
// slice is shared and must not be modified.
func (r *PriceRepository) ValidRows() []entities.PriceRow {
	return r.validRows
}

// Degraded reports whether filtering falls back to treating every row as valid
func (r *PriceRepository) Degraded() bool {
	return len(r.rows) == 0 || !r.hasPrice
}

// DegradedReason explains a degraded dataset, "" otherwise
func (r *PriceRepository) DegradedReason() string {
	switch {
	case len(r.rows) == 0:
		return ReasonEmptyDataset
	case !r.hasPrice:
		return ReasonNoPriceColumn
	default:
		return ""
	}
}

// Len returns the number of rows
func (r *PriceRepository) Len() int {
	return len(r.rows)
}

// FirstExactMatch returns the first row, in dataset order, whose five fields
// equal the selections. Unpriced rows are included.
func (r *PriceRepository) FirstExactMatch(s entities.Selections) (*entities.PriceRow, bool) {
	for i := range r.rows {
		if r.rows[i].MatchesExactly(s) {
			row := r.rows[i]
			return &row, true
		}
	}
	return nil, false
}
