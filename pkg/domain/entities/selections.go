package entities

// Selections is the five-slot partial assignment of the configurator.
// An empty string means the field is unset. It performs no validation.
type Selections struct {
	values [FieldCount]string
}

// NewSelections builds selections from a field map; unknown fields are ignored
func NewSelections(values map[Field]string) Selections {
	var s Selections
	for f, v := range values {
		if f.Valid() {
			s.values[f] = v
		}
	}
	return s
}

// SelectionsFromRow returns selections assigning all five fields of a row
func SelectionsFromRow(r PriceRow) Selections {
	var s Selections
	for _, f := range AllFields {
		s.values[f] = r.Value(f)
	}
	return s
}

// Get returns the value of a field, or "" when unset
func (s Selections) Get(f Field) string {
	if !f.Valid() {
		return ""
	}
	return s.values[f]
}

// IsSet reports whether a field holds a non-empty value
func (s Selections) IsSet(f Field) bool {
	return s.Get(f) != ""
}

// Set assigns a value to a field
func (s *Selections) Set(f Field, value string) {
	if f.Valid() {
		s.values[f] = value
	}
}

// Clear unsets a field
func (s *Selections) Clear(f Field) {
	if f.Valid() {
		s.values[f] = ""
	}
}

// ClearAll unsets every field
func (s *Selections) ClearAll() {
	s.values = [FieldCount]string{}
}

// IsComplete reports whether all five fields are set
func (s Selections) IsComplete() bool {
	for _, v := range s.values {
		if v == "" {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no field is set
func (s Selections) IsEmpty() bool {
	for _, v := range s.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Only returns a copy keeping only the listed fields
func (s Selections) Only(fields ...Field) Selections {
	var out Selections
	for _, f := range fields {
		if f.Valid() {
			out.values[f] = s.values[f]
		}
	}
	return out
}

// Without returns a copy with the listed fields unset
func (s Selections) Without(fields ...Field) Selections {
	out := s
	for _, f := range fields {
		out.Clear(f)
	}
	return out
}

// Map returns the set fields keyed by field name
func (s Selections) Map() map[string]string {
	out := make(map[string]string, FieldCount)
	for _, f := range AllFields {
		if v := s.values[f]; v != "" {
			out[f.String()] = v
		}
	}
	return out
}

// Diff returns the fields whose value differs between s and other
func (s Selections) Diff(other Selections) []Field {
	var changed []Field
	for _, f := range AllFields {
		if s.values[f] != other.values[f] {
			changed = append(changed, f)
		}
	}
	return changed
}
