// Package configurator is the embeddable entry point: build a session from
// price rows or CSV files and drive it step by step.
package configurator

import (
	"context"
	"fmt"

	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	domainservices "github.com/vsinha/repair-configurator/pkg/domain/services"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/memory"
)

// Session is one user's walk through the five steps
type Session = services.Configurator

// Option configures New and NewFromCSV
type Option func(*options)

type options struct {
	logger    *logging.Logger
	delimiter rune
	mapping   entities.ColumnMapping
}

// WithLogger attaches a logger; sessions are silent by default
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDelimiter sets the CSV separator, ';' by default
func WithDelimiter(delimiter rune) Option {
	return func(o *options) { o.delimiter = delimiter }
}

// WithColumns overrides the expected CSV headers
func WithColumns(mapping entities.ColumnMapping) Option {
	return func(o *options) { o.mapping = mapping }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:    logging.NewNop(),
		delimiter: csv.DefaultDelimiter,
		mapping:   entities.DefaultColumnMapping(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New starts a session over in-memory rows. Rows are treated as priced
// data; rows without a valid price are filtered out of the options.
func New(rows []PriceRow, settings Settings, opts ...Option) (*Session, error) {
	o := buildOptions(opts)
	return services.NewConfigurator(memory.NewPriceRepository(rows, true), settings, nil, o.logger)
}

// NewFromCSV loads and merges the given price files, then starts a session
func NewFromCSV(ctx context.Context, settings Settings, paths []string, opts ...Option) (*Session, error) {
	o := buildOptions(opts)

	table, err := csv.NewMultiLoader(paths, o.delimiter).LoadTable(ctx)
	if err != nil {
		return nil, err
	}

	mapper := domainservices.NewColumnMapper(o.mapping, domainservices.DefaultPriceHints())
	repo, err := memory.NewPriceRepositoryFromTable(table, mapper)
	if err != nil {
		return nil, fmt.Errorf("failed to map price list: %w", err)
	}
	return services.NewConfigurator(repo, settings, nil, o.logger)
}
