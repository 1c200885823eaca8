package services

import (
	"fmt"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
)

// FilteringEngine guarantees that only reachable choices are offered.
//
// Two projections of the dataset are used:
//   - ComputeAvailable: for field F, values over valid rows matching every
//     other assigned field. This is what the rendering side displays.
//   - Selectable: for field F, values over valid rows matching the assigned
//     fields upstream of F. This gates ApplySelection, so that an earlier
//     step can always be changed and later steps are then reconciled by
//     cascading invalidation.
type FilteringEngine struct {
	repo     repositories.PriceRepository
	resolver *PriceResolver
	logger   *logging.Logger
}

// Verify interface compliance
var _ Selector = (*FilteringEngine)(nil)

// NewFilteringEngine creates an engine. A nil repository is a contract
// violation and is reported as entities.ErrNilDataset.
func NewFilteringEngine(repo repositories.PriceRepository, logger *logging.Logger) (*FilteringEngine, error) {
	if repo == nil {
		return nil, entities.ErrNilDataset
	}
	logger = logging.OrNop(logger)

	if repo.Degraded() {
		logger.Warn("price filtering degraded, every row treated as valid",
			"reason", repo.DegradedReason(),
			"rows", repo.Len(),
		)
	}

	return &FilteringEngine{
		repo:     repo,
		resolver: NewPriceResolver(repo),
		logger:   logger,
	}, nil
}

// Mode returns ModeFiltering
func (e *FilteringEngine) Mode() string {
	return ModeFiltering
}

// ComputeAvailable computes every field's available set in one pass over
// the valid rows. A row contributes to field F when it disagrees with the
// selections on no field other than F. Rows lacking a value for F never
// contribute to F.
func (e *FilteringEngine) ComputeAvailable(s entities.Selections) (available entities.AvailableOptions) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("available options computation failed", "panic", fmt.Sprint(r))
			available = entities.NewAvailableOptions()
		}
	}()

	available = entities.NewAvailableOptions()
	rows := e.repo.ValidRows()

	for i := range rows {
		row := &rows[i]

		mismatches := 0
		mismatched := entities.Field(-1)
		for _, f := range entities.AllFields {
			want := s.Get(f)
			if want != "" && row.Value(f) != want {
				mismatches++
				mismatched = f
				if mismatches > 1 {
					break
				}
			}
		}

		switch mismatches {
		case 0:
			for _, f := range entities.AllFields {
				available.Add(f, row.Value(f))
			}
		case 1:
			available.Add(mismatched, row.Value(mismatched))
		}
	}

	return available
}

// Selectable returns, per field, the values matching the upstream selections
func (e *FilteringEngine) Selectable(s entities.Selections) (selectable entities.AvailableOptions) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("selectable options computation failed", "panic", fmt.Sprint(r))
			selectable = entities.NewAvailableOptions()
		}
	}()

	selectable = entities.NewAvailableOptions()
	for _, f := range entities.AllFields {
		addDistinct(selectable.For(f), e.repo.ValidRows(), f, s.Only(f.Upstream()...))
	}
	return selectable
}

// IsAvailable reports whether value is in the available set of f
func (e *FilteringEngine) IsAvailable(s entities.Selections, f entities.Field, value string) bool {
	return e.ComputeAvailable(s).Has(f, value)
}

// AvailableCount returns the size of the available set of f
func (e *FilteringEngine) AvailableCount(s entities.Selections, f entities.Field) int {
	return e.ComputeAvailable(s).Count(f)
}

// ApplySelection sets f to value when the value is selectable given the
// upstream fields, then runs cascading invalidation. Re-applying the
// current value is a no-op.
func (e *FilteringEngine) ApplySelection(s *entities.Selections, f entities.Field, value string) (SelectionResult, error) {
	result := SelectionResult{Field: f, Value: value}
	if !f.Valid() {
		return result, fmt.Errorf("%w: %d", entities.ErrUnknownField, int(f))
	}

	if !e.selectableFor(*s, f).Has(value) {
		e.logger.Debug("selection rejected", "field", f.String(), "value", value)
		return result, &entities.InvalidSelectionError{Field: f, Value: value}
	}

	result.Accepted = true
	if s.Get(f) == value {
		return result, nil
	}

	s.Set(f, value)
	result.Cleared = e.Cascade(s)

	if len(result.Cleared) > 0 {
		e.logger.Info("selections invalidated",
			"changed", f.String(),
			"value", value,
			"cleared", fieldNames(result.Cleared),
		)
	}
	return result, nil
}

// Cascade re-validates every assigned field from the most dependent
// (model) back to the least dependent (repair). Each field is checked
// against the assigned fields upstream of it; an invalid brand or series
// takes its dependents down with it. One sweep reaches the fixed point
// because a field's check only consults fields the sweep has not yet
// visited, and clearing a field only relaxes the checks of fields before it.
func (e *FilteringEngine) Cascade(s *entities.Selections) []entities.Field {
	var cleared []entities.Field

	for i := len(entities.AllFields) - 1; i >= 0; i-- {
		f := entities.AllFields[i]
		if !s.IsSet(f) {
			continue
		}
		if e.selectableFor(*s, f).Has(s.Get(f)) {
			continue
		}

		for _, dep := range f.Dependents() {
			if s.IsSet(dep) {
				s.Clear(dep)
				cleared = append(cleared, dep)
			}
		}
		s.Clear(f)
		cleared = append(cleared, f)
	}

	return cleared
}

// Resolve delegates to the price resolver
func (e *FilteringEngine) Resolve(s entities.Selections) entities.PriceOutcome {
	return e.resolver.Resolve(s)
}

func (e *FilteringEngine) selectableFor(s entities.Selections, f entities.Field) entities.OptionSet {
	set := make(entities.OptionSet)
	addDistinct(set, e.repo.ValidRows(), f, s.Only(f.Upstream()...))
	return set
}

func fieldNames(fields []entities.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}
