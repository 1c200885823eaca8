package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

// DefaultPriceHints are tried in order when no explicit price column is
// configured. Each group matches the first header containing all its tokens.
func DefaultPriceHints() [][]string {
	return [][]string{
		{"prix", "standard"},
		{"prix"},
		{"price"},
	}
}

// ColumnMapper resolves configured column names against a table header.
// Matching ignores case, accents and surrounding whitespace so that an
// export saying "Serie" still maps to "Série".
type ColumnMapper struct {
	columns    entities.ColumnMapping
	priceHints [][]string
}

// NewColumnMapper creates a mapper; empty hints use DefaultPriceHints
func NewColumnMapper(columns entities.ColumnMapping, priceHints [][]string) *ColumnMapper {
	if len(priceHints) == 0 {
		priceHints = DefaultPriceHints()
	}
	return &ColumnMapper{columns: columns, priceHints: priceHints}
}

// Resolve returns the mapping expressed in the header's own spelling.
// Fields absent from the header map to "" and never contribute values.
// Price is "" when no price column can be identified.
func (m *ColumnMapper) Resolve(header []string) entities.ColumnMapping {
	return entities.ColumnMapping{
		Repair:  findHeader(header, m.columns.Repair),
		Quality: findHeader(header, m.columns.Quality),
		Brand:   findHeader(header, m.columns.Brand),
		Series:  findHeader(header, m.columns.Series),
		Model:   findHeader(header, m.columns.Model),
		Price:   m.InferPriceColumn(header),
	}
}

// InferPriceColumn picks the explicit price column when present in the
// header, otherwise the first header matching the first satisfiable hint group
func (m *ColumnMapper) InferPriceColumn(header []string) string {
	if m.columns.Price != "" {
		if h := findHeader(header, m.columns.Price); h != "" {
			return h
		}
	}

	for _, group := range m.priceHints {
		if len(group) == 0 {
			continue
		}
		for _, h := range header {
			if containsAllTokens(NormalizeHeader(h), group) {
				return h
			}
		}
	}
	return ""
}

// NormalizeHeader lowercases, trims and strips diacritics
func NormalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(folded, "\ufeff")))
}

func findHeader(header []string, want string) string {
	if want == "" {
		return ""
	}
	target := NormalizeHeader(want)
	for _, h := range header {
		if NormalizeHeader(h) == target {
			return h
		}
	}
	return ""
}

func containsAllTokens(normalized string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(normalized, NormalizeHeader(token)) {
			return false
		}
	}
	return true
}
