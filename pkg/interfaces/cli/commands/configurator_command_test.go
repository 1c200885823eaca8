package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/config"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/events"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/repair-configurator/pkg/infrastructure/testing"
)

func newTestRuntime() *Runtime {
	settings := config.Default()
	settings.Booking.AppointmentURL = "https://rdv.example.com/book"
	logger := logging.NewNop()
	return &Runtime{
		Settings: settings,
		Logger:   logger,
		Repo:     testhelpers.BuildRepairShopTestData(),
		Events:   events.NewInMemoryEventStore(logger),
		Booking:  services.NewBookingHandoff(settings.BookingConfig()),
	}
}

func TestConfiguratorCommandQuoteFromFlags(t *testing.T) {
	var out bytes.Buffer
	cmd := NewConfiguratorCommand(SessionConfig{
		Config: Config{Format: "text"},
		Selections: map[entities.Field]string{
			entities.Repair:  "Écran",
			entities.Quality: "Origine",
			entities.Brand:   "Apple",
			entities.Series:  "iPhone",
			entities.Model:   "iPhone 12",
		},
		Book: true,
		Out:  &out,
	}).WithRuntime(newTestRuntime())

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "89 €") {
		t.Errorf("Expected price 89 € in output, got:\n%s", text)
	}
	if !strings.Contains(text, "rdv.example.com/book?") {
		t.Errorf("Expected booking URL in output, got:\n%s", text)
	}
}

func TestConfiguratorCommandRejectsUnavailableFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := NewConfiguratorCommand(SessionConfig{
		Config: Config{Format: "text"},
		Selections: map[entities.Field]string{
			entities.Repair: "Connecteur",
			entities.Brand:  "Apple",
		},
		Out: &out,
	}).WithRuntime(newTestRuntime())

	err := cmd.Execute(context.Background())
	if err == nil {
		t.Fatal("Expected error for a brand without Connecteur repairs")
	}
	if !strings.Contains(err.Error(), "brand") {
		t.Errorf("Expected error to name the field, got %v", err)
	}
}

func TestConfiguratorCommandUnpricedQuoteCannotBook(t *testing.T) {
	var out bytes.Buffer
	runtime := newTestRuntime()
	runtime.Settings.Filtering.Enabled = false

	cmd := NewConfiguratorCommand(SessionConfig{
		Config: Config{Format: "text"},
		Selections: map[entities.Field]string{
			entities.Repair:  "Écran",
			entities.Quality: "Compatible",
			entities.Brand:   "Apple",
			entities.Series:  "iPhone",
			entities.Model:   "iPhone 12",
		},
		Book: true,
		Out:  &out,
	}).WithRuntime(runtime)

	err := cmd.Execute(context.Background())
	if err == nil {
		t.Fatal("Expected booking to fail for an unpriced quote")
	}
	if !strings.Contains(out.String(), services.UnavailableLabel) {
		t.Errorf("Expected %q in output, got:\n%s", services.UnavailableLabel, out.String())
	}
}

func TestInteractiveSession(t *testing.T) {
	input := strings.Join([]string{
		"set repair Écran",
		"set quality Origine",
		"set brand Apple",
		"set series iPhone",
		"set model iPhone 12",
		"quote",
		"set brand Samsung",
		"bogus",
		"events 3",
		"quit",
	}, "\n") + "\n"

	var out bytes.Buffer
	cmd := NewConfiguratorCommand(SessionConfig{
		Interactive: true,
		In:          strings.NewReader(input),
		Out:         &out,
	}).WithRuntime(newTestRuntime())

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := out.String()
	expected := []string{
		"✅ model = iPhone 12",
		"Price:    89 €",
		"↺  series cleared",
		"↺  model cleared",
		"unknown command: bogus",
		"=== Recent Events (last 3) ===",
		"Goodbye!",
	}
	for _, want := range expected {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestInteractiveSessionRejectedValueListsOptions(t *testing.T) {
	input := "set repair Écran\nset brand Nokia\nquit\n"

	var out bytes.Buffer
	cmd := NewConfiguratorCommand(SessionConfig{
		Interactive: true,
		In:          strings.NewReader(input),
		Out:         &out,
	}).WithRuntime(newTestRuntime())

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, `❌ "Nokia" is not available for brand`) {
		t.Errorf("Expected rejection message, got:\n%s", text)
	}
	if !strings.Contains(text, "• Samsung") {
		t.Errorf("Expected available brands to be listed, got:\n%s", text)
	}
}

func TestGenerateCommandIsReproducible(t *testing.T) {
	cfg := GenerateConfig{Brands: 2, Series: 2, Models: 2, UnpricedPct: 0.2, Seed: 42}

	first := NewGenerateCommand(cfg).GenerateTable()
	second := NewGenerateCommand(cfg).GenerateTable()

	// 2 brands x 2 series x 2 models x 5 repairs x 2 qualities
	if len(first.Records) != 80 {
		t.Fatalf("Expected 80 rows, got %d", len(first.Records))
	}
	for i := range first.Records {
		if strings.Join(first.Records[i], ";") != strings.Join(second.Records[i], ";") {
			t.Fatalf("Expected identical row %d for the same seed, got %v and %v", i, first.Records[i], second.Records[i])
		}
	}
}

func TestGenerateCommandOutputLoads(t *testing.T) {
	dir := t.TempDir()
	cfg := GenerateConfig{Brands: 1, Series: 1, Models: 2, UnpricedPct: 0.5, Seed: 7, OutputDir: dir}

	if err := NewGenerateCommand(cfg).Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	path := filepath.Join(dir, "prices.csv")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected %s to exist: %v", path, err)
	}

	table, err := csv.NewLoader(path, csv.DefaultDelimiter).LoadTable(context.Background())
	if err != nil {
		t.Fatalf("Failed to load generated file: %v", err)
	}

	settings := config.Default()
	repo, err := memory.NewPriceRepositoryFromTable(table, settings.ColumnMapper())
	if err != nil {
		t.Fatalf("Failed to map generated file: %v", err)
	}
	if repo.Len() != 20 {
		t.Errorf("Expected 20 rows, got %d", repo.Len())
	}
	if repo.Degraded() {
		t.Errorf("Expected the Prix column to be detected, got degraded: %s", repo.DegradedReason())
	}
	if len(repo.ValidRows()) >= repo.Len() {
		t.Errorf("Expected some unpriced rows with seed 7 and 50%% unpriced, got %d of %d priced", len(repo.ValidRows()), repo.Len())
	}
}
