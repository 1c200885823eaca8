package services

import (
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
)

// PriceResolver turns a complete set of selections into a price outcome
type PriceResolver struct {
	repo repositories.PriceRepository
}

// NewPriceResolver creates a resolver over a price repository
func NewPriceResolver(repo repositories.PriceRepository) *PriceResolver {
	return &PriceResolver{repo: repo}
}

// Resolve looks up the first row in dataset order matching all five fields.
// Duplicates never raise an error: the first match wins even if a later
// duplicate carries a different price. The caller must only pass complete
// selections.
func (r *PriceResolver) Resolve(s entities.Selections) entities.PriceOutcome {
	row, found := r.repo.FirstExactMatch(s)
	if !found {
		return entities.UnavailableOutcome(nil)
	}
	if !row.Price.IsValid() {
		return entities.UnavailableOutcome(row)
	}
	return entities.PricedOutcome(row)
}

// ResolveComplete is Resolve guarded by the completeness precondition
func (r *PriceResolver) ResolveComplete(s entities.Selections) (entities.PriceOutcome, error) {
	if !s.IsComplete() {
		return entities.UnavailableOutcome(nil), entities.ErrIncompleteSelections
	}
	return r.Resolve(s), nil
}
