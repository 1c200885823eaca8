package services

import (
	"slices"
	"testing"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

func TestAppleModelComparator_Compare(t *testing.T) {
	c := NewAppleModelComparator(nil)

	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"older_generation_first", "iPhone 11", "iPhone 12", -1},
		{"numeric_not_lexical", "iPhone 9", "iPhone 10", -1},
		{"mini_before_standard", "iPhone 12 Mini", "iPhone 12", -1},
		{"plus_before_pro", "iPhone 14 Plus", "iPhone 14 Pro", -1},
		{"pro_before_pro_max", "iPhone 13 Pro", "iPhone 13 Pro Max", -1},
		{"no_generation_last", "iPhone SE", "iPhone 15", 1},
		{"same_model", "iPhone 12", "iPhone 12", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Compare(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestAppleModelComparator_Variant(t *testing.T) {
	c := NewAppleModelComparator(nil)

	if v := c.Variant("iPhone 15 Pro Max"); v != VariantProMax {
		t.Errorf("Expected Pro Max, got %s", v)
	}
	if v := c.Variant("iPhone 15 Pro"); v != VariantPro {
		t.Errorf("Expected Pro, got %s", v)
	}
	if v := c.Variant("iPhone 15"); v != VariantStandard {
		t.Errorf("Expected Standard, got %s", v)
	}
	if g := c.Generation("iPhone XR"); g != unknownGeneration {
		t.Errorf("Expected unknown generation, got %d", g)
	}
}

func TestOptionSorter_AppleModels(t *testing.T) {
	sorter := NewOptionSorter(SortConfig{Locale: "fr", AppleEnabled: true, AppleBrand: "Apple"})

	models := []string{"iPhone 13 Pro Max", "iPhone 12", "iPhone 13 Mini", "iPhone 13", "iPhone 12 Pro"}
	got := sorter.Sort(entities.Model, "Apple", models)
	want := []string{"iPhone 12", "iPhone 12 Pro", "iPhone 13 Mini", "iPhone 13", "iPhone 13 Pro Max"}

	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if models[0] != "iPhone 13 Pro Max" {
		t.Error("Expected Sort to leave its input untouched")
	}
}

func TestOptionSorter_CollationForOtherBrands(t *testing.T) {
	sorter := NewOptionSorter(SortConfig{Locale: "fr", AppleEnabled: true})

	got := sorter.Sort(entities.Model, "Samsung", []string{"Galaxy S9", "Galaxy A52", "galaxy Note"})
	want := []string{"Galaxy A52", "galaxy Note", "Galaxy S9"}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	repairs := sorter.Sort(entities.Repair, "", []string{"Écran", "Batterie", "Connecteur"})
	wantRepairs := []string{"Batterie", "Connecteur", "Écran"}
	if !slices.Equal(repairs, wantRepairs) {
		t.Errorf("Expected accented values to collate with their base letter, got %v", repairs)
	}
}
