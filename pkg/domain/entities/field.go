package entities

import (
	"fmt"
	"strings"
)

// Field identifies one of the five configurator steps
type Field int

const (
	Repair Field = iota
	Quality
	Brand
	Series
	Model
)

// FieldCount is the number of selection fields
const FieldCount = 5

// AllFields lists the fields in dependency order
var AllFields = [FieldCount]Field{Repair, Quality, Brand, Series, Model}

// String method for Field enum
func (f Field) String() string {
	switch f {
	case Repair:
		return "repair"
	case Quality:
		return "quality"
	case Brand:
		return "brand"
	case Series:
		return "series"
	case Model:
		return "model"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the five known fields
func (f Field) Valid() bool {
	return f >= Repair && f <= Model
}

// Step returns the 1-based step number shown to the user
func (f Field) Step() int {
	return int(f) + 1
}

// Upstream returns the fields that precede f in dependency order
func (f Field) Upstream() []Field {
	if !f.Valid() {
		return nil
	}
	return AllFields[:f]
}

// Dependents returns the fields that must be cleared together with f when
// f is invalidated. Brand, series and model form a strict hierarchy; repair
// and quality are independent facets and clear only themselves.
func (f Field) Dependents() []Field {
	switch f {
	case Brand:
		return []Field{Series, Model}
	case Series:
		return []Field{Model}
	default:
		return nil
	}
}

// ParseField converts a field name into a Field
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "repair", "repair_type", "type":
		return Repair, nil
	case "quality":
		return Quality, nil
	case "brand":
		return Brand, nil
	case "series":
		return Series, nil
	case "model":
		return Model, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}
