package services

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

// SortConfig controls how option lists are ordered for display
type SortConfig struct {
	Locale       string
	AppleEnabled bool
	AppleBrand   string
	VariantOrder map[string]int
}

// OptionSorter orders option values with locale collation, and orders the
// models of the configured Apple brand with the AppleModelComparator
type OptionSorter struct {
	tag        language.Tag
	apple      *AppleModelComparator
	appleOn    bool
	appleBrand string
}

// NewOptionSorter creates a sorter; unknown locales fall back to French
func NewOptionSorter(config SortConfig) *OptionSorter {
	tag, err := language.Parse(config.Locale)
	if err != nil || config.Locale == "" {
		tag = language.French
	}
	brand := config.AppleBrand
	if brand == "" {
		brand = "Apple"
	}
	return &OptionSorter{
		tag:        tag,
		apple:      NewAppleModelComparator(config.VariantOrder),
		appleOn:    config.AppleEnabled,
		appleBrand: brand,
	}
}

// Sort returns a sorted copy of values for a field. brand is the currently
// selected brand and only matters for the model field.
func (s *OptionSorter) Sort(field entities.Field, brand string, values []string) []string {
	sorted := slices.Clone(values)
	// A collator is not safe for concurrent use, so each call gets its own
	collator := collate.New(s.tag)

	slices.SortStableFunc(sorted, func(a, b string) int {
		return collator.CompareString(a, b)
	})

	if field == entities.Model && s.appleOn && brand == s.appleBrand {
		slices.SortStableFunc(sorted, s.apple.Compare)
	}

	return sorted
}

// SortSet returns the members of an option set in display order
func (s *OptionSorter) SortSet(field entities.Field, brand string, set entities.OptionSet) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	return s.Sort(field, brand, values)
}
