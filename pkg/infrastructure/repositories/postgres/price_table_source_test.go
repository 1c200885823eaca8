package postgres

import (
	"slices"
	"testing"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/services"
)

func TestHeaderMatchesColumnMapping(t *testing.T) {
	source := NewPriceTableSource(nil, "", entities.DefaultColumnMapping())

	header := source.Header()
	expected := []string{"Type de réparation", "Qualité", "Marque", "Série", "Modèle", "Prix"}
	if !slices.Equal(header, expected) {
		t.Fatalf("Expected header %v, got %v", expected, header)
	}

	// The produced header must resolve completely, price included
	mapping := services.NewColumnMapper(entities.DefaultColumnMapping(), nil).Resolve(header)
	if mapping.Model != "Modèle" || mapping.Price != "Prix" {
		t.Errorf("Expected header to resolve, got %+v", mapping)
	}
}

func TestTableIdentifierIsQuoted(t *testing.T) {
	source := NewPriceTableSource(nil, `prices"; DROP TABLE x; --`, entities.DefaultColumnMapping())

	if got := source.table.Sanitize(); got != `"prices""; DROP TABLE x; --"` {
		t.Errorf("Expected quoted identifier, got %s", got)
	}
	if got := NewPriceTableSource(nil, "", entities.ColumnMapping{}).table.Sanitize(); got != `"repair_prices"` {
		t.Errorf("Expected default table, got %s", got)
	}
}
