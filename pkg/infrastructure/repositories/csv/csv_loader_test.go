package csv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

const shopExport = "\ufeffType de réparation;Qualité;Marque;Série;Modèle;Prix Standard\n" +
	"Écran;Origine;Apple;iPhone;iPhone 12;89\n" +
	"Écran;Compatible;Apple;iPhone;iPhone 12;0\n" +
	"\n" +
	";;;;;\n" +
	"Batterie;Origine;Samsung;Galaxy S\n" +
	"Écran;\"Origine\";Apple;iPhone;iPhone 13 Mini;119,00;note\n"

func TestReadTable(t *testing.T) {
	table, err := NewLoader("", 0).ReadTable(strings.NewReader(shopExport))
	if err != nil {
		t.Fatalf("Failed to read table: %v", err)
	}

	expectedHeader := []string{"Type de réparation", "Qualité", "Marque", "Série", "Modèle", "Prix Standard"}
	if !slices.Equal(table.Header, expectedHeader) {
		t.Errorf("Expected header %v, got %v", expectedHeader, table.Header)
	}

	if len(table.Records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(table.Records))
	}
	if len(table.Records[2]) != 4 {
		t.Errorf("Expected short record to be kept as is, got %v", table.Records[2])
	}
	if got := table.Cell(table.Records[2], "Modèle"); got != "" {
		t.Errorf("Expected missing cell to read as empty, got %q", got)
	}
	if got := table.Cell(table.Records[0], "Prix Standard"); got != "89" {
		t.Errorf("Expected price 89, got %q", got)
	}
}

func TestReadTableEmptyInput(t *testing.T) {
	table, err := NewLoader("", ';').ReadTable(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Expected empty input to be accepted, got %v", err)
	}
	if len(table.Header) != 0 || len(table.Records) != 0 {
		t.Errorf("Expected empty table, got %+v", table)
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.csv"), 0)
	if _, err := loader.LoadTable(context.Background()); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestSaveAndLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	loader := NewLoader(path, ',')

	table := &entities.PriceTable{
		Header: []string{"Type de réparation", "Qualité", "Marque", "Série", "Modèle", "Prix"},
		Records: [][]string{
			{"Écran", "Origine", "Apple", "iPhone", "iPhone 12", "89,90"},
		},
	}
	if err := loader.SaveTable(table); err != nil {
		t.Fatalf("Failed to save table: %v", err)
	}

	loaded, err := loader.LoadTable(context.Background())
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}
	if got := loaded.Cell(loaded.Records[0], "Prix"); got != "89,90" {
		t.Errorf("Expected quoted decimal comma to survive, got %q", got)
	}

	raw, _ := os.ReadFile(path)
	if !bytes.Contains(raw, []byte(`"89,90"`)) {
		t.Errorf("Expected comma value to be quoted, got %s", raw)
	}
}

func TestLoadTableCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLoader("prices.csv", 0).LoadTable(ctx); err == nil {
		t.Error("Expected cancelled context to abort loading")
	}
}

func TestMultiLoaderKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	apple := filepath.Join(dir, "apple.csv")
	samsung := filepath.Join(dir, "samsung.csv")

	if err := os.WriteFile(apple, []byte("Marque;Modèle;Prix\nApple;iPhone 12;89\nApple;iPhone 13;99\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	// Columns in another order, plus one the first file lacks
	if err := os.WriteFile(samsung, []byte("Prix;Marque;Stock;Modèle\n139;Samsung;4;Galaxy S21\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	table, err := NewMultiLoader([]string{apple, samsung}, ';').LoadTable(context.Background())
	if err != nil {
		t.Fatalf("Failed to load tables: %v", err)
	}

	if !slices.Equal(table.Header, []string{"Marque", "Modèle", "Prix"}) {
		t.Errorf("Expected first header to win, got %v", table.Header)
	}
	if len(table.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(table.Records))
	}
	if !slices.Equal(table.Records[2], []string{"Samsung", "Galaxy S21", "139"}) {
		t.Errorf("Expected realigned record, got %v", table.Records[2])
	}
}

func TestMultiLoaderFailsOnMissingFile(t *testing.T) {
	loader := NewMultiLoader([]string{filepath.Join(t.TempDir(), "missing.csv")}, ';')
	if _, err := loader.LoadTable(context.Background()); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, err := NewMultiLoader(nil, ';').LoadTable(context.Background()); err == nil {
		t.Error("Expected an error without files")
	}
}
