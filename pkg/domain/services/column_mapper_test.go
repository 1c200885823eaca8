package services

import (
	"testing"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

var shopHeader = []string{"\ufeffMarque", "Série", "Modèle", "Type de réparation", "Qualité", "Prix Achat", "Prix Standard TTC"}

func TestColumnMapper_Resolve(t *testing.T) {
	mapper := NewColumnMapper(entities.DefaultColumnMapping(), nil)

	mapping := mapper.Resolve(shopHeader)

	if mapping.Brand != "\ufeffMarque" {
		t.Errorf("Expected brand to map to the BOM-prefixed header, got %q", mapping.Brand)
	}
	if mapping.Series != "Série" {
		t.Errorf("Expected series header Série, got %q", mapping.Series)
	}
	if mapping.Price != "Prix Standard TTC" {
		t.Errorf("Expected the standard price column to win over the first prix column, got %q", mapping.Price)
	}
}

func TestColumnMapper_AccentInsensitive(t *testing.T) {
	mapper := NewColumnMapper(entities.DefaultColumnMapping(), nil)

	mapping := mapper.Resolve([]string{"marque", "serie", "modele", "type de reparation", "qualite", "prix"})
	if mapping.Model != "modele" || mapping.Repair != "type de reparation" {
		t.Errorf("Expected accent-free headers to match, got %+v", mapping)
	}
	if mapping.Price != "prix" {
		t.Errorf("Expected fallback hint to find prix, got %q", mapping.Price)
	}
}

func TestColumnMapper_ExplicitAndMissingPrice(t *testing.T) {
	columns := entities.DefaultColumnMapping()
	columns.Price = "Prix Achat"
	mapper := NewColumnMapper(columns, nil)

	if got := mapper.InferPriceColumn(shopHeader); got != "Prix Achat" {
		t.Errorf("Expected explicit price column, got %q", got)
	}

	english := NewColumnMapper(entities.DefaultColumnMapping(), [][]string{{"cost"}})
	if got := english.InferPriceColumn(shopHeader); got != "" {
		t.Errorf("Expected no price column for unmatched hints, got %q", got)
	}
}
