package entities

import "strings"

// PriceTable is the raw tabular form of the price list as loaded from a
// source, before column mapping
type PriceTable struct {
	Header  []string
	Records [][]string
}

// Cell returns the trimmed value of a named column in a record, "" when
// the column is unmapped or the record is short
func (t *PriceTable) Cell(record []string, column string) string {
	if column == "" {
		return ""
	}
	idx := t.ColumnIndex(column)
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ColumnIndex returns the position of a column, -1 when absent
func (t *PriceTable) ColumnIndex(column string) int {
	for i, h := range t.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// ColumnMapping names the header of each field and of the price
type ColumnMapping struct {
	Repair  string
	Quality string
	Brand   string
	Series  string
	Model   string
	// Price is empty when no price column could be identified
	Price string
}

// Column returns the header mapped to a field
func (m ColumnMapping) Column(f Field) string {
	switch f {
	case Repair:
		return m.Repair
	case Quality:
		return m.Quality
	case Brand:
		return m.Brand
	case Series:
		return m.Series
	case Model:
		return m.Model
	default:
		return ""
	}
}

// DefaultColumnMapping returns the headers used by the shop's price export
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Repair:  "Type de réparation",
		Quality: "Qualité",
		Brand:   "Marque",
		Series:  "Série",
		Model:   "Modèle",
	}
}
