package entities

import "sort"

// OptionSet is a set of distinct field values
type OptionSet map[string]struct{}

// Add inserts a value; empty values are ignored
func (s OptionSet) Add(value string) {
	if value != "" {
		s[value] = struct{}{}
	}
}

// Has reports membership
func (s OptionSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Values returns the members in byte order
func (s OptionSet) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// AvailableOptions holds one option set per field. It is derived from the
// dataset and the current selections and never outlives a mutation.
type AvailableOptions struct {
	sets [FieldCount]OptionSet
}

// NewAvailableOptions returns five empty sets
func NewAvailableOptions() AvailableOptions {
	var o AvailableOptions
	for i := range o.sets {
		o.sets[i] = make(OptionSet)
	}
	return o
}

// For returns the option set of a field
func (o AvailableOptions) For(f Field) OptionSet {
	if !f.Valid() || o.sets[f] == nil {
		return OptionSet{}
	}
	return o.sets[f]
}

// Add records a value for a field
func (o AvailableOptions) Add(f Field, value string) {
	if f.Valid() && o.sets[f] != nil {
		o.sets[f].Add(value)
	}
}

// Has reports whether value is available for f
func (o AvailableOptions) Has(f Field, value string) bool {
	return o.For(f).Has(value)
}

// Count returns the number of available values for f
func (o AvailableOptions) Count(f Field) int {
	return len(o.For(f))
}

// IsEmpty reports whether every set is empty
func (o AvailableOptions) IsEmpty() bool {
	for _, f := range AllFields {
		if o.Count(f) > 0 {
			return false
		}
	}
	return true
}
