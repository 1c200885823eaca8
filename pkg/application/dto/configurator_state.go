package dto

// OptionView is one listed value of a step
type OptionView struct {
	Value string `json:"value"`
	// Available is membership in the step's available set
	Available bool `json:"available"`
	// Selectable reports whether the value would be accepted, possibly
	// clearing later steps
	Selectable bool `json:"selectable"`
	Selected   bool `json:"selected"`
}

// StepView describes one of the five steps
type StepView struct {
	Field          string       `json:"field"`
	Step           int          `json:"step"`
	Selected       string       `json:"selected,omitempty"`
	AvailableCount int          `json:"available_count"`
	Options        []OptionView `json:"options"`
}

// QuoteView is a resolved price ready for display
type QuoteView struct {
	Status       string `json:"status"`
	Amount       string `json:"amount,omitempty"`
	Display      string `json:"display"`
	Repair       string `json:"repair"`
	Quality      string `json:"quality"`
	Device       string `json:"device"`
	TimeEstimate string `json:"time_estimate"`
}

// StateView is the full configurator state handed to renderers
type StateView struct {
	Session    string            `json:"session"`
	Mode       string            `json:"mode"`
	Selections map[string]string `json:"selections"`
	Complete   bool              `json:"complete"`
	Steps      []StepView        `json:"steps"`
	Quote      *QuoteView        `json:"quote,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// SelectionView reports the outcome of a selection request
type SelectionView struct {
	Accepted bool      `json:"accepted"`
	Field    string    `json:"field"`
	Value    string    `json:"value"`
	Cleared  []string  `json:"cleared,omitempty"`
	Error    string    `json:"error,omitempty"`
	State    StateView `json:"state"`
}
