package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/repair-configurator/pkg/infrastructure/config"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/postgres"
)

// ImportCommand copies CSV price lists into the postgres price table
type ImportCommand struct {
	config Config
}

// NewImportCommand creates a new import command
func NewImportCommand(config Config) *ImportCommand {
	return &ImportCommand{config: config}
}

// Execute loads the CSV files and replaces the table's content
func (c *ImportCommand) Execute(ctx context.Context) error {
	cfg := c.config
	// The CSV files are the input here; the database is the destination
	cfg.DataSource = config.SourceCSV
	settings, err := LoadSettings(cfg)
	if err != nil {
		return err
	}
	if settings.Data.DatabaseURL == "" {
		return fmt.Errorf("a database URL is required (-database-url or %s)", config.EnvDatabaseURL)
	}

	logger, err := logging.New(settings.Log.Mode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	if c.config.Verbose {
		fmt.Printf("📂 Reading %s...\n", settings.Data.CSVPath)
	}
	table, err := csv.NewMultiLoader(settings.CSVPaths(), settings.DelimiterRune()).LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("failed to load price list: %w", err)
	}
	mapping := settings.ColumnMapper().Resolve(table.Header)
	if mapping.Price == "" {
		logger.Warn("no price column found, every row imported without price")
	}

	pool, err := postgres.Connect(ctx, settings.Data.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	source := postgres.NewPriceTableSource(pool, settings.Data.Table, settings.ColumnMapping())
	if err := source.EnsureSchema(ctx); err != nil {
		return err
	}

	start := time.Now()
	copied, err := source.ImportTable(ctx, table, mapping)
	if err != nil {
		return err
	}

	logger.Info("price list imported", "table", settings.Data.Table, "rows", copied, "duration", time.Since(start).String())
	if c.config.Verbose {
		fmt.Printf("✅ %d rows imported into %s in %v\n", copied, settings.Data.Table, time.Since(start))
	}
	return nil
}
