package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
)

// DefaultDelimiter is the separator of the shop's spreadsheet export
const DefaultDelimiter = ';'

const byteOrderMark = "\ufeff"

// Loader reads the price table from a delimited text file
type Loader struct {
	path      string
	delimiter rune
}

// Verify interface compliance
var _ repositories.PriceTableSource = (*Loader)(nil)

// NewLoader creates a loader; a zero delimiter uses DefaultDelimiter
func NewLoader(path string, delimiter rune) *Loader {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Loader{path: path, delimiter: delimiter}
}

// LoadTable opens the file and reads it
func (l *Loader) LoadTable(ctx context.Context) (*entities.PriceTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price file %s: %w", l.path, err)
	}
	defer file.Close()

	table, err := l.ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("price file %s: %w", l.path, err)
	}
	return table, nil
}

// ReadTable parses a header line followed by records. Records may be
// shorter or longer than the header; blank lines are skipped. An empty
// input yields an empty table.
func (l *Loader) ReadTable(r io.Reader) (*entities.PriceTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &entities.PriceTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &entities.PriceTable{Header: header}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// WriteTable writes a table in the loader's format
func (l *Loader) WriteTable(w io.Writer, table *entities.PriceTable) error {
	writer := csv.NewWriter(w)
	writer.Comma = l.delimiter

	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, record := range table.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveTable writes a table to the loader's path
func (l *Loader) SaveTable(table *entities.PriceTable) error {
	file, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("failed to create price file %s: %w", l.path, err)
	}
	defer file.Close()

	return l.WriteTable(file, table)
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
