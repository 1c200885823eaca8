package csv

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
)

// MultiLoader reads several price files concurrently and concatenates them
// in the order given, so dataset order stays deterministic. The first
// file's header wins; records of later files are realigned to it by column
// name, and columns the first header lacks are dropped.
type MultiLoader struct {
	loaders []*Loader
}

// Verify interface compliance
var _ repositories.PriceTableSource = (*MultiLoader)(nil)

// NewMultiLoader creates a loader over paths sharing one delimiter
func NewMultiLoader(paths []string, delimiter rune) *MultiLoader {
	loaders := make([]*Loader, len(paths))
	for i, p := range paths {
		loaders[i] = NewLoader(p, delimiter)
	}
	return &MultiLoader{loaders: loaders}
}

// LoadTable loads every file; the first failure cancels the others
func (m *MultiLoader) LoadTable(ctx context.Context) (*entities.PriceTable, error) {
	if len(m.loaders) == 0 {
		return nil, fmt.Errorf("no price file configured")
	}

	tables := make([]*entities.PriceTable, len(m.loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, loader := range m.loaders {
		i, loader := i, loader
		g.Go(func() error {
			table, err := loader.LoadTable(gctx)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeTables(tables...), nil
}

// MergeTables concatenates tables under the header of the first one that has a header
func MergeTables(tables ...*entities.PriceTable) *entities.PriceTable {
	merged := &entities.PriceTable{}
	for _, t := range tables {
		if t != nil && len(t.Header) > 0 {
			merged.Header = t.Header
			break
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, record := range t.Records {
			aligned := make([]string, len(merged.Header))
			for i, column := range merged.Header {
				aligned[i] = t.Cell(record, column)
			}
			merged.Records = append(merged.Records, aligned)
		}
	}
	return merged
}
