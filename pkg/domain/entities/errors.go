package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when a value is not currently selectable
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrUnknownField is returned for field names outside the five steps
	ErrUnknownField = errors.New("unknown field")
	// ErrIncompleteSelections is returned when a price is requested before all five fields are set
	ErrIncompleteSelections = errors.New("selections incomplete")
	// ErrNilDataset signals a caller contract violation: the engine was built before data was loaded
	ErrNilDataset = errors.New("dataset not loaded")
	// ErrDegradedDataset marks a dataset without a usable price column
	ErrDegradedDataset = errors.New("degraded dataset")
)

// InvalidSelectionError describes a rejected selection
type InvalidSelectionError struct {
	Field Field
	Value string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("option %q not available for %s", e.Value, e.Field)
}

func (e *InvalidSelectionError) Unwrap() error {
	return ErrInvalidSelection
}
