package events

import "github.com/vsinha/repair-configurator/pkg/infrastructure/logging"

const (
	SelectionAppliedEvent      = "selection.applied"
	SelectionRejectedEvent     = "selection.rejected"
	SelectionClearedEvent      = "selection.cleared"
	SelectionsInvalidatedEvent = "selections.invalidated"
	SelectionsResetEvent       = "selections.reset"

	QuoteResolvedEvent   = "quote.resolved"
	BookingPreparedEvent = "booking.prepared"
)

type SelectionApplied struct {
	Field      string            `json:"field"`
	Value      string            `json:"value"`
	Selections map[string]string `json:"selections"`
}

type SelectionRejected struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type SelectionCleared struct {
	Field         string `json:"field"`
	PreviousValue string `json:"previous_value"`
}

type SelectionsInvalidated struct {
	ChangedField string            `json:"changed_field"`
	Cleared      map[string]string `json:"cleared"`
}

type SelectionsReset struct {
	Previous map[string]string `json:"previous"`
}

type QuoteResolved struct {
	Selections   map[string]string `json:"selections"`
	Status       string            `json:"status"`
	Amount       string            `json:"amount,omitempty"`
	Label        string            `json:"label,omitempty"`
	TimeEstimate string            `json:"time_estimate"`
}

type BookingPrepared struct {
	URL string `json:"url"`
}

// AuditEventTypes are the events worth an audit log line
var AuditEventTypes = []string{
	SelectionRejectedEvent,
	SelectionsInvalidatedEvent,
	SelectionsResetEvent,
	QuoteResolvedEvent,
	BookingPreparedEvent,
}

// NewAuditLogger returns a handler writing one structured log line per event
func NewAuditLogger(logger *logging.Logger) *HandlerFunc {
	logger = logging.OrNop(logger).With("component", "audit")
	return &HandlerFunc{
		Types: AuditEventTypes,
		Fn: func(e Event) error {
			logger.Info(e.Type(),
				"session", e.StreamID(),
				"version", e.Version(),
				"event_id", e.ID(),
				"data", e.Data(),
			)
			return nil
		},
	}
}
