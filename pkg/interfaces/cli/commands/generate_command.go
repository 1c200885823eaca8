package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for sample price list generation
type GenerateConfig struct {
	Brands      int     // Number of brands, at most len(brandCatalog)
	Series      int     // Series per brand
	Models      int     // Models per series
	UnpricedPct float64 // Share of rows left without a price (0.0-1.0)
	OutputDir   string  // Output directory for the generated file
	FileName    string  // Output file name
	Seed        int64   // Random seed for reproducible generation
	Help        bool    // Show help
	Verbose     bool    // Verbose output
}

// GenerateCommand writes a synthetic price list for demos and load tests
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

var brandCatalog = []struct {
	Brand  string
	Series []string
}{
	{"Apple", []string{"iPhone 11", "iPhone 12", "iPhone 13", "iPhone 14", "iPhone 15", "iPhone SE"}},
	{"Samsung", []string{"Galaxy S", "Galaxy A", "Galaxy Z", "Galaxy Note"}},
	{"Google", []string{"Pixel", "Pixel a"}},
	{"Xiaomi", []string{"Redmi Note", "Redmi", "Mi"}},
	{"Huawei", []string{"P", "Mate", "Nova"}},
	{"OnePlus", []string{"OnePlus", "Nord"}},
}

var modelSuffixes = []string{"", " Mini", " Plus", " Pro", " Pro Max", " Lite", " Ultra"}

var repairCatalog = []struct {
	Repair string
	Base   int
}{
	{"Écran", 89},
	{"Batterie", 49},
	{"Connecteur", 59},
	{"Caméra arrière", 69},
	{"Vitre arrière", 79},
}

var qualityCatalog = []struct {
	Quality string
	Factor  float64
}{
	{"Original", 1.4},
	{"Compatible", 1.0},
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	if config.Brands <= 0 || config.Brands > len(brandCatalog) {
		config.Brands = len(brandCatalog)
	}
	if config.Series <= 0 {
		config.Series = 3
	}
	if config.Models <= 0 {
		config.Models = 3
	}
	if config.Models > len(modelSuffixes) {
		config.Models = len(modelSuffixes)
	}
	if config.FileName == "" {
		config.FileName = "prices.csv"
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(config.Seed)),
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if cmd.config.Verbose {
		fmt.Printf(
			"🔧 Generating price list with %d brands, %d series per brand, %d models per series, %.0f%% unpriced\n",
			cmd.config.Brands,
			cmd.config.Series,
			cmd.config.Models,
			cmd.config.UnpricedPct*100,
		)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	table := cmd.GenerateTable()

	path := filepath.Join(cmd.config.OutputDir, cmd.config.FileName)
	if err := csv.NewLoader(path, csv.DefaultDelimiter).SaveTable(table); err != nil {
		return fmt.Errorf("failed to write price list: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ %d rows written to %s\n", len(table.Records), path)
	}
	return nil
}

// GenerateTable builds the price table in catalog order
func (cmd *GenerateCommand) GenerateTable() *entities.PriceTable {
	mapping := entities.DefaultColumnMapping()
	table := &entities.PriceTable{
		Header: []string{mapping.Repair, mapping.Quality, mapping.Brand, mapping.Series, mapping.Model, "Prix"},
	}

	for _, brand := range brandCatalog[:cmd.config.Brands] {
		series := brand.Series
		if len(series) > cmd.config.Series {
			series = series[:cmd.config.Series]
		}
		for _, s := range series {
			for _, model := range cmd.modelsFor(s) {
				for _, repair := range repairCatalog {
					for _, quality := range qualityCatalog {
						table.Records = append(table.Records, []string{
							repair.Repair, quality.Quality, brand.Brand, s, model,
							cmd.generatePrice(repair.Base, quality.Factor),
						})
					}
				}
			}
		}
	}
	return table
}

// modelsFor picks distinct model names within a series
func (cmd *GenerateCommand) modelsFor(series string) []string {
	perm := cmd.rand.Perm(len(modelSuffixes))[:cmd.config.Models]
	models := make([]string, 0, len(perm))
	for _, i := range perm {
		models = append(models, series+modelSuffixes[i])
	}
	return models
}

// generatePrice returns a price string; "" or "0" for unpriced rows
func (cmd *GenerateCommand) generatePrice(base int, factor float64) string {
	if cmd.rand.Float64() < cmd.config.UnpricedPct {
		if cmd.rand.Intn(2) == 0 {
			return ""
		}
		return "0"
	}
	// Spread of +/-20% around the base, rounded to the euro with a few cents cases
	spread := 0.8 + cmd.rand.Float64()*0.4
	price := float64(base) * factor * spread
	if cmd.rand.Intn(5) == 0 {
		return fmt.Sprintf("%.2f", price)
	}
	return fmt.Sprintf("%d", int(price))
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Println(`Usage: configurator generate [options]

Generate a synthetic price list in the shop's export format.

Options:
  -brands int        Number of brands (default: all)
  -series int        Series per brand (default: 3)
  -models int        Models per series (default: 3)
  -unpriced float    Share of rows without a price, 0.0-1.0 (default: 0.1)
  -output string     Output directory (default: ./data)
  -file string       Output file name (default: prices.csv)
  -seed int          Random seed, 0 for time-based (default: 0)
  -verbose           Verbose output
  -help              Show this help

Examples:
  configurator generate -brands 2 -series 2 -models 2 -output ./data
  configurator generate -unpriced 0.3 -seed 42 -verbose`)
}
