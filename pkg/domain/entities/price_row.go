package entities

// PriceRow is one record of the reference price table
type PriceRow struct {
	Repair  string
	Quality string
	Brand   string
	Series  string
	Model   string
	Price   Price
}

// Value returns the row's value for a field
func (r *PriceRow) Value(f Field) string {
	switch f {
	case Repair:
		return r.Repair
	case Quality:
		return r.Quality
	case Brand:
		return r.Brand
	case Series:
		return r.Series
	case Model:
		return r.Model
	default:
		return ""
	}
}

// Matches reports whether the row agrees with every assigned field of s,
// ignoring the fields listed in skip
func (r *PriceRow) Matches(s Selections, skip ...Field) bool {
	for _, f := range AllFields {
		if containsField(skip, f) {
			continue
		}
		want := s.Get(f)
		if want != "" && r.Value(f) != want {
			return false
		}
	}
	return true
}

// MatchesExactly reports whether all five fields equal the selections
func (r *PriceRow) MatchesExactly(s Selections) bool {
	for _, f := range AllFields {
		if r.Value(f) != s.Get(f) {
			return false
		}
	}
	return true
}

// DeviceLabel returns "brand series model" for display
func (r *PriceRow) DeviceLabel() string {
	return joinNonEmpty(r.Brand, r.Series, r.Model)
}

func containsField(fields []Field, f Field) bool {
	for _, candidate := range fields {
		if candidate == f {
			return true
		}
	}
	return false
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
