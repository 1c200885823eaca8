package services

import (
	"fmt"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
)

// PassThroughSelector is the unfiltered strategy: prices are ignored for
// availability and only the brand > series > model hierarchy scopes the
// lists. Choosing a brand resets series and model; choosing a series
// resets model.
type PassThroughSelector struct {
	repo     repositories.PriceRepository
	resolver *PriceResolver
}

// Verify interface compliance
var _ Selector = (*PassThroughSelector)(nil)

// NewPassThroughSelector creates the unfiltered strategy
func NewPassThroughSelector(repo repositories.PriceRepository) (*PassThroughSelector, error) {
	if repo == nil {
		return nil, entities.ErrNilDataset
	}
	return &PassThroughSelector{repo: repo, resolver: NewPriceResolver(repo)}, nil
}

// Mode returns ModePassThrough
func (p *PassThroughSelector) Mode() string {
	return ModePassThrough
}

// ComputeAvailable lists every repair, quality and brand; series under the
// selected brand; models under the selected brand and series
func (p *PassThroughSelector) ComputeAvailable(s entities.Selections) entities.AvailableOptions {
	available := entities.NewAvailableOptions()
	rows := p.repo.Rows()

	var none entities.Selections
	addDistinct(available.For(entities.Repair), rows, entities.Repair, none)
	addDistinct(available.For(entities.Quality), rows, entities.Quality, none)
	addDistinct(available.For(entities.Brand), rows, entities.Brand, none)

	if s.IsSet(entities.Brand) {
		addDistinct(available.For(entities.Series), rows, entities.Series, s.Only(entities.Brand))
	}
	if s.IsSet(entities.Brand) && s.IsSet(entities.Series) {
		addDistinct(available.For(entities.Model), rows, entities.Model, s.Only(entities.Brand, entities.Series))
	}

	return available
}

// Selectable is identical to ComputeAvailable in unfiltered mode
func (p *PassThroughSelector) Selectable(s entities.Selections) entities.AvailableOptions {
	return p.ComputeAvailable(s)
}

// ApplySelection accepts any listed value and applies the hierarchy resets
func (p *PassThroughSelector) ApplySelection(s *entities.Selections, f entities.Field, value string) (SelectionResult, error) {
	result := SelectionResult{Field: f, Value: value}
	if !f.Valid() {
		return result, fmt.Errorf("%w: %d", entities.ErrUnknownField, int(f))
	}

	if !p.ComputeAvailable(*s).Has(f, value) {
		return result, &entities.InvalidSelectionError{Field: f, Value: value}
	}

	result.Accepted = true
	if s.Get(f) == value {
		return result, nil
	}

	s.Set(f, value)
	for _, dep := range f.Dependents() {
		if s.IsSet(dep) {
			s.Clear(dep)
			result.Cleared = append(result.Cleared, dep)
		}
	}
	return result, nil
}

// Resolve delegates to the price resolver
func (p *PassThroughSelector) Resolve(s entities.Selections) entities.PriceOutcome {
	return p.resolver.Resolve(s)
}
