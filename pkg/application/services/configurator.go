package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vsinha/repair-configurator/pkg/application/dto"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
	domainservices "github.com/vsinha/repair-configurator/pkg/domain/services"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/events"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
)

const (
	// DefaultTimeEstimate is quoted for repairs without a configured duration
	DefaultTimeEstimate = "30-60 minutes"
	// UnavailableLabel is displayed in place of a price
	UnavailableLabel = "Non disponible"
)

// ConfiguratorConfig holds the behaviour switches of a configurator session
type ConfiguratorConfig struct {
	// Filtering selects the FilteringEngine strategy; otherwise the
	// PassThroughSelector is used
	Filtering     bool
	TimeEstimates map[string]string
	DefaultTime   string
	Currency      string
	Sort          domainservices.SortConfig
}

// DefaultConfiguratorConfig returns filtering on, Apple sorting on, French collation
func DefaultConfiguratorConfig() ConfiguratorConfig {
	return ConfiguratorConfig{
		Filtering:   true,
		DefaultTime: DefaultTimeEstimate,
		Currency:    "€",
		Sort: domainservices.SortConfig{
			Locale:       "fr",
			AppleEnabled: true,
			AppleBrand:   "Apple",
		},
	}
}

// Configurator is the session context owned by the top-level caller. It
// holds the selections, the selection strategy picked at construction, and
// the session's event stream. It is not safe for concurrent use; callers
// serialize access.
type Configurator struct {
	id         string
	repo       repositories.PriceRepository
	selector   Selector
	selections entities.Selections
	sorter     *domainservices.OptionSorter
	store      events.EventStore
	logger     *logging.Logger
	config     ConfiguratorConfig
	lastQuote  *entities.Quote
}

// NewConfigurator builds a session over a loaded price repository. Filtering
// is used when enabled and the dataset has rows; an empty dataset falls
// back to the pass-through strategy.
func NewConfigurator(
	repo repositories.PriceRepository,
	config ConfiguratorConfig,
	store events.EventStore,
	logger *logging.Logger,
) (*Configurator, error) {
	if repo == nil {
		return nil, entities.ErrNilDataset
	}
	logger = logging.OrNop(logger)
	if store == nil {
		store = events.NewInMemoryEventStore(logger)
	}
	if config.DefaultTime == "" {
		config.DefaultTime = DefaultTimeEstimate
	}
	if config.Currency == "" {
		config.Currency = "€"
	}

	id := uuid.NewString()
	logger = logger.With("session", id)

	var (
		selector Selector
		err      error
	)
	if config.Filtering && repo.Len() > 0 {
		selector, err = NewFilteringEngine(repo, logger)
	} else {
		selector, err = NewPassThroughSelector(repo)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build selector: %w", err)
	}

	logger.Info("configurator ready", "mode", selector.Mode(), "rows", repo.Len(), "degraded", repo.Degraded())

	return &Configurator{
		id:       id,
		repo:     repo,
		selector: selector,
		sorter:   domainservices.NewOptionSorter(config.Sort),
		store:    store,
		logger:   logger,
		config:   config,
	}, nil
}

// ID returns the session identifier, also used as the event stream id
func (c *Configurator) ID() string {
	return c.id
}

// Mode returns the selection strategy in use
func (c *Configurator) Mode() string {
	return c.selector.Mode()
}

// Events returns the session's event store
func (c *Configurator) Events() events.EventStore {
	return c.store
}

// Selections returns a copy of the current selections
func (c *Configurator) Selections() entities.Selections {
	return c.selections
}

// Warnings lists non-fatal dataset problems to surface to the user
func (c *Configurator) Warnings() []string {
	if c.repo.Degraded() {
		return []string{fmt.Sprintf("%v: %s", entities.ErrDegradedDataset, c.repo.DegradedReason())}
	}
	return nil
}

// AvailableOptions returns the available sets for the current selections
func (c *Configurator) AvailableOptions() entities.AvailableOptions {
	return c.selector.ComputeAvailable(c.selections)
}

// AvailableOptionsFor returns the available sets for arbitrary selections
// without touching the session state
func (c *Configurator) AvailableOptionsFor(s entities.Selections) entities.AvailableOptions {
	return c.selector.ComputeAvailable(s)
}

// IsAvailable reports whether value is available for f
func (c *Configurator) IsAvailable(f entities.Field, value string) bool {
	return c.AvailableOptions().Has(f, value)
}

// AvailableCount returns the number of available values for f
func (c *Configurator) AvailableCount(f entities.Field) int {
	return c.AvailableOptions().Count(f)
}

// Options lists the values of a step in display order. The list covers
// every value the step can structurally take under the selected brand and
// series, priced or not, so the caller can grey out unavailable ones.
func (c *Configurator) Options(f entities.Field) []dto.OptionView {
	available := c.AvailableOptions()
	selectable := c.selector.Selectable(c.selections)

	scope := c.selections.Only(hierarchyAncestors(f)...)
	listed := make(entities.OptionSet)
	addDistinct(listed, c.repo.Rows(), f, scope)

	values := c.sorter.SortSet(f, c.selections.Get(entities.Brand), listed)
	states := make([]dto.OptionView, 0, len(values))
	for _, v := range values {
		states = append(states, dto.OptionView{
			Value:      v,
			Available:  available.Has(f, v),
			Selectable: selectable.Has(f, v),
			Selected:   c.selections.Get(f) == v,
		})
	}
	return states
}

// State builds the renderer view of the session
func (c *Configurator) State() dto.StateView {
	available := c.AvailableOptions()

	view := dto.StateView{
		Session:    c.id,
		Mode:       c.Mode(),
		Selections: c.selections.Map(),
		Complete:   c.selections.IsComplete(),
		Steps:      make([]dto.StepView, 0, entities.FieldCount),
		Warnings:   c.Warnings(),
	}

	for _, f := range entities.AllFields {
		view.Steps = append(view.Steps, dto.StepView{
			Field:          f.String(),
			Step:           f.Step(),
			Selected:       c.selections.Get(f),
			AvailableCount: available.Count(f),
			Options:        c.Options(f),
		})
	}

	if quote, ok := c.LastQuote(); ok {
		qv := c.QuoteView(quote)
		view.Quote = &qv
	}
	return view
}

// QuoteView renders a quote with the session's currency
func (c *Configurator) QuoteView(q entities.Quote) dto.QuoteView {
	return NewQuoteView(q, c.config.Currency)
}

// NewQuoteView renders a quote; unavailable quotes display "Non disponible"
func NewQuoteView(q entities.Quote, currency string) dto.QuoteView {
	view := dto.QuoteView{
		Status:       q.Outcome.Status.String(),
		Display:      UnavailableLabel,
		Repair:       q.Selections.Get(entities.Repair),
		Quality:      q.Selections.Get(entities.Quality),
		Device:       q.DeviceLabel(),
		TimeEstimate: q.TimeEstimate,
	}
	if q.Outcome.IsPriced() {
		view.Display = q.Outcome.Display(currency)
	}
	if q.Outcome.HasAmount() {
		view.Amount = q.Outcome.Amount.String()
	}
	return view
}

// ApplySelection sets a field through the selection strategy. A rejected
// value leaves the selections untouched and returns an error wrapping
// entities.ErrInvalidSelection.
func (c *Configurator) ApplySelection(f entities.Field, value string) (SelectionResult, error) {
	before := c.selections

	result, err := c.selector.ApplySelection(&c.selections, f, value)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidSelection) {
			c.append(events.SelectionRejectedEvent, events.SelectionRejected{
				Field:  f.String(),
				Value:  value,
				Reason: err.Error(),
			})
		}
		return result, err
	}

	if len(before.Diff(c.selections)) == 0 {
		return result, nil
	}

	c.append(events.SelectionAppliedEvent, events.SelectionApplied{
		Field:      f.String(),
		Value:      value,
		Selections: c.selections.Map(),
	})

	if len(result.Cleared) > 0 {
		cleared := make(map[string]string, len(result.Cleared))
		for _, cf := range result.Cleared {
			cleared[cf.String()] = before.Get(cf)
		}
		c.append(events.SelectionsInvalidatedEvent, events.SelectionsInvalidated{
			ChangedField: f.String(),
			Cleared:      cleared,
		})
	}

	c.refreshQuote()
	return result, nil
}

// ApplyNamed is ApplySelection with a field name
func (c *Configurator) ApplyNamed(field, value string) (SelectionResult, error) {
	f, err := entities.ParseField(field)
	if err != nil {
		return SelectionResult{}, err
	}
	return c.ApplySelection(f, value)
}

// Clear unsets a single field. Clearing only removes a constraint, so no
// other field can become invalid.
func (c *Configurator) Clear(f entities.Field) {
	previous := c.selections.Get(f)
	if previous == "" {
		return
	}
	c.selections.Clear(f)
	c.append(events.SelectionClearedEvent, events.SelectionCleared{Field: f.String(), PreviousValue: previous})
	c.refreshQuote()
}

// Reset clears every selection
func (c *Configurator) Reset() {
	previous := c.selections.Map()
	c.selections.ClearAll()
	c.lastQuote = nil
	c.append(events.SelectionsResetEvent, events.SelectionsReset{Previous: previous})
}

// ResolvePrice resolves the current selections, which must be complete
func (c *Configurator) ResolvePrice() (entities.Quote, error) {
	return c.ResolvePriceFor(c.selections)
}

// ResolvePriceFor resolves arbitrary complete selections
func (c *Configurator) ResolvePriceFor(s entities.Selections) (entities.Quote, error) {
	if !s.IsComplete() {
		return entities.Quote{Selections: s}, entities.ErrIncompleteSelections
	}
	return entities.Quote{
		Selections:   s,
		Outcome:      c.selector.Resolve(s),
		TimeEstimate: c.TimeEstimate(s.Get(entities.Repair)),
	}, nil
}

// LastQuote returns the quote computed when the selections last became complete
func (c *Configurator) LastQuote() (entities.Quote, bool) {
	if c.lastQuote == nil {
		return entities.Quote{}, false
	}
	return *c.lastQuote, true
}

// PrepareBooking resolves the current selections and builds the portal URL
func (c *Configurator) PrepareBooking(handoff *BookingHandoff) (string, error) {
	quote, err := c.ResolvePrice()
	if err != nil {
		return "", err
	}
	bookingURL, err := handoff.BuildURL(quote)
	if err != nil {
		return "", err
	}
	c.append(events.BookingPreparedEvent, events.BookingPrepared{URL: bookingURL})
	return bookingURL, nil
}

// TimeEstimate returns the configured duration of a repair type
func (c *Configurator) TimeEstimate(repair string) string {
	if t, ok := c.config.TimeEstimates[repair]; ok && t != "" {
		return t
	}
	return c.config.DefaultTime
}

func (c *Configurator) refreshQuote() {
	if !c.selections.IsComplete() {
		c.lastQuote = nil
		return
	}

	quote, err := c.ResolvePrice()
	if err != nil {
		c.lastQuote = nil
		return
	}
	c.lastQuote = &quote

	resolved := events.QuoteResolved{
		Selections:   c.selections.Map(),
		Status:       quote.Outcome.Status.String(),
		TimeEstimate: quote.TimeEstimate,
	}
	if quote.Outcome.HasAmount() {
		resolved.Amount = quote.Outcome.Amount.String()
	}
	resolved.Label = quote.Outcome.Label
	c.append(events.QuoteResolvedEvent, resolved)
	c.logger.Info("quote resolved", "status", resolved.Status, "amount", resolved.Amount)
}

func (c *Configurator) append(eventType string, data interface{}) {
	if err := c.store.AppendEvent(c.id, events.NewEvent(eventType, c.id, data)); err != nil {
		c.logger.Warn("failed to record event", "event_type", eventType, "error", err)
	}
}

// hierarchyAncestors returns the brand/series ancestors that scope a step's list
func hierarchyAncestors(f entities.Field) []entities.Field {
	switch f {
	case entities.Series:
		return []entities.Field{entities.Brand}
	case entities.Model:
		return []entities.Field{entities.Brand, entities.Series}
	default:
		return nil
	}
}
