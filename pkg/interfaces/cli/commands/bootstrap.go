package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/config"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/events"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/repositories/postgres"
)

// Config holds the options shared by every command
type Config struct {
	ConfigFile  string
	EnvFile     string
	DataSource  string
	CSVPath     string
	DatabaseURL string
	Format      string
	OutputDir   string
	Verbose     bool
	NoFilter    bool
	Help        bool
}

// Runtime is the loaded dataset and its collaborators
type Runtime struct {
	Settings config.Config
	Logger   *logging.Logger
	Repo     *memory.PriceRepository
	Events   events.EventStore
	Booking  *services.BookingHandoff
}

// LoadSettings reads .env, the config file and the environment, then
// applies command line overrides
func LoadSettings(cfg Config) (config.Config, error) {
	if err := config.LoadDotEnv(envFiles(cfg.EnvFile)...); err != nil {
		return config.Config{}, err
	}

	settings, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return settings, err
	}

	if cfg.DataSource != "" {
		settings.Data.Source = cfg.DataSource
	}
	if cfg.CSVPath != "" {
		settings.Data.CSVPath = cfg.CSVPath
	}
	if cfg.DatabaseURL != "" {
		settings.Data.DatabaseURL = cfg.DatabaseURL
	}
	if cfg.NoFilter {
		settings.Filtering.Enabled = false
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// Bootstrap loads the settings and the price dataset
func Bootstrap(ctx context.Context, cfg Config) (*Runtime, error) {
	settings, err := LoadSettings(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(settings.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.Verbose {
		fmt.Printf("📂 Loading price list from %s...\n", describeSource(settings))
	}

	source, closeSource, err := OpenSource(ctx, settings, logger)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	table, err := source.LoadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price list: %w", err)
	}

	repo, err := memory.NewPriceRepositoryFromTable(table, settings.ColumnMapper())
	if err != nil {
		return nil, fmt.Errorf("failed to map price list: %w", err)
	}

	logger.Info("price list loaded",
		"source", settings.Data.Source,
		"rows", repo.Len(),
		"valid_rows", len(repo.ValidRows()),
		"degraded", repo.Degraded(),
	)

	if cfg.Verbose {
		fmt.Printf("✅ %d rows loaded, %d priced\n", repo.Len(), len(repo.ValidRows()))
		if repo.Degraded() {
			fmt.Printf("⚠️  Filtering degraded: %s\n", repo.DegradedReason())
		}
		fmt.Println()
	}

	store := events.NewInMemoryEventStore(logger)
	audit := events.NewAuditLogger(logger)
	if err := store.Subscribe(audit.Types, audit); err != nil {
		return nil, fmt.Errorf("failed to subscribe audit logger: %w", err)
	}

	return &Runtime{
		Settings: settings,
		Logger:   logger,
		Repo:     repo,
		Events:   store,
		Booking:  services.NewBookingHandoff(settings.BookingConfig()),
	}, nil
}

// OpenSource returns the configured table source and a function releasing it
func OpenSource(ctx context.Context, settings config.Config, logger *logging.Logger) (repositories.PriceTableSource, func(), error) {
	switch settings.Data.Source {
	case config.SourcePostgres:
		pool, err := postgres.Connect(ctx, settings.Data.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPriceTableSource(pool, settings.Data.Table, settings.ColumnMapping()), pool.Close, nil
	default:
		return csv.NewMultiLoader(settings.CSVPaths(), settings.DelimiterRune()), func() {}, nil
	}
}

// NewConfigurator starts a session over the runtime's dataset
func (r *Runtime) NewConfigurator() (*services.Configurator, error) {
	return services.NewConfigurator(r.Repo, r.Settings.ConfiguratorConfig(), r.Events, r.Logger)
}

func describeSource(settings config.Config) string {
	if settings.Data.Source == config.SourcePostgres {
		return "postgres table " + settings.Data.Table
	}
	return settings.Data.CSVPath
}

func envFiles(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
