package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	appservices "github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	domainservices "github.com/vsinha/repair-configurator/pkg/domain/services"
)

// Data sources
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Environment overrides
const (
	EnvDataSource  = "CONFIGURATOR_DATA_SOURCE"
	EnvCSVPath     = "CONFIGURATOR_CSV_PATH"
	EnvDatabaseURL = "DATABASE_URL"
	EnvTable       = "CONFIGURATOR_TABLE"
	EnvHTTPAddr    = "CONFIGURATOR_HTTP_ADDR"
	EnvLogMode     = "CONFIGURATOR_LOG_MODE"
)

// Config is the configurator's file configuration
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Columns   ColumnsConfig   `yaml:"columns"`
	Filtering FilteringConfig `yaml:"filtering"`
	Sorting   SortingConfig   `yaml:"sorting"`
	Repair    RepairConfig    `yaml:"repair"`
	Booking   BookingConfig   `yaml:"booking"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
}

type DataConfig struct {
	Source string `yaml:"source"`
	// CSVPath may list several files separated by commas; they are
	// concatenated in order
	CSVPath     string `yaml:"csv_path"`
	Delimiter   string `yaml:"delimiter"`
	DatabaseURL string `yaml:"database_url"`
	Table       string `yaml:"table"`
}

type ColumnsConfig struct {
	Repair     string     `yaml:"repair"`
	Quality    string     `yaml:"quality"`
	Brand      string     `yaml:"brand"`
	Series     string     `yaml:"series"`
	Model      string     `yaml:"model"`
	Price      string     `yaml:"price"`
	PriceHints [][]string `yaml:"price_hints"`
}

type FilteringConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SortingConfig struct {
	Locale string      `yaml:"locale"`
	Apple  AppleConfig `yaml:"apple"`
}

type AppleConfig struct {
	Enabled      bool           `yaml:"enabled"`
	Brand        string         `yaml:"brand"`
	VariantOrder map[string]int `yaml:"variant_order"`
}

type RepairConfig struct {
	Times       map[string]string `yaml:"times"`
	DefaultTime string            `yaml:"default_time"`
}

type BookingConfig struct {
	AppointmentURL     string            `yaml:"appointment_url"`
	Source             string            `yaml:"source"`
	Currency           string            `yaml:"currency"`
	BrandMappings      map[string]string `yaml:"brand_mappings"`
	RepairMappings     map[string]string `yaml:"repair_mappings"`
	DefaultRepairLabel string            `yaml:"default_repair_label"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	columns := entities.DefaultColumnMapping()
	return Config{
		Data: DataConfig{
			Source:    SourceCSV,
			CSVPath:   "prices.csv",
			Delimiter: ";",
			Table:     "repair_prices",
		},
		Columns: ColumnsConfig{
			Repair:     columns.Repair,
			Quality:    columns.Quality,
			Brand:      columns.Brand,
			Series:     columns.Series,
			Model:      columns.Model,
			PriceHints: domainservices.DefaultPriceHints(),
		},
		Filtering: FilteringConfig{Enabled: true},
		Sorting: SortingConfig{
			Locale: "fr",
			Apple: AppleConfig{
				Enabled:      true,
				Brand:        "Apple",
				VariantOrder: domainservices.DefaultVariantOrder(),
			},
		},
		Repair: RepairConfig{DefaultTime: appservices.DefaultTimeEstimate},
		Booking: BookingConfig{
			Source:             "configurateur",
			Currency:           "€",
			DefaultRepairLabel: "Réparation Smartphone",
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Mode: "development"},
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file. Keys absent from the file keep
// their default.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	override := func(key string, target *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
	override(EnvDataSource, &c.Data.Source)
	override(EnvCSVPath, &c.Data.CSVPath)
	override(EnvDatabaseURL, &c.Data.DatabaseURL)
	override(EnvTable, &c.Data.Table)
	override(EnvHTTPAddr, &c.HTTP.Addr)
	override(EnvLogMode, &c.Log.Mode)
}

// Validate checks the settings needed to load the dataset and serve it
func (c *Config) Validate() error {
	var errs []error

	switch c.Data.Source {
	case SourceCSV:
		if len(c.CSVPaths()) == 0 {
			errs = append(errs, errors.New("data.csv_path is required for the csv source"))
		}
		if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
			errs = append(errs, fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter))
		}
	case SourcePostgres:
		if c.Data.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("data.database_url (or %s) is required for the postgres source", EnvDatabaseURL))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown data source %q", c.Data.Source))
	}

	for name, column := range map[string]string{
		"repair":  c.Columns.Repair,
		"quality": c.Columns.Quality,
		"brand":   c.Columns.Brand,
		"series":  c.Columns.Series,
		"model":   c.Columns.Model,
	} {
		if column == "" {
			errs = append(errs, fmt.Errorf("columns.%s must not be empty", name))
		}
	}

	if c.Booking.AppointmentURL != "" {
		if u, err := url.Parse(c.Booking.AppointmentURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("booking.appointment_url is not an absolute URL: %q", c.Booking.AppointmentURL))
		}
	}

	return errors.Join(errs...)
}

// CSVPaths splits data.csv_path into its files
func (c *Config) CSVPaths() []string {
	var paths []string
	for _, p := range strings.Split(c.Data.CSVPath, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// DelimiterRune returns the CSV separator
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	if r == utf8.RuneError {
		return ';'
	}
	return r
}

// ColumnMapping returns the configured header names
func (c *Config) ColumnMapping() entities.ColumnMapping {
	return entities.ColumnMapping{
		Repair:  c.Columns.Repair,
		Quality: c.Columns.Quality,
		Brand:   c.Columns.Brand,
		Series:  c.Columns.Series,
		Model:   c.Columns.Model,
		Price:   c.Columns.Price,
	}
}

// ColumnMapper builds the header resolver
func (c *Config) ColumnMapper() *domainservices.ColumnMapper {
	return domainservices.NewColumnMapper(c.ColumnMapping(), c.Columns.PriceHints)
}

// ConfiguratorConfig converts to the session settings
func (c *Config) ConfiguratorConfig() appservices.ConfiguratorConfig {
	return appservices.ConfiguratorConfig{
		Filtering:     c.Filtering.Enabled,
		TimeEstimates: c.Repair.Times,
		DefaultTime:   c.Repair.DefaultTime,
		Currency:      c.Booking.Currency,
		Sort: domainservices.SortConfig{
			Locale:       c.Sorting.Locale,
			AppleEnabled: c.Sorting.Apple.Enabled,
			AppleBrand:   c.Sorting.Apple.Brand,
			VariantOrder: c.Sorting.Apple.VariantOrder,
		},
	}
}

// BookingConfig converts to the handoff settings
func (c *Config) BookingConfig() appservices.BookingConfig {
	return appservices.BookingConfig{
		AppointmentURL:     c.Booking.AppointmentURL,
		Source:             c.Booking.Source,
		Currency:           c.Booking.Currency,
		BrandMappings:      c.Booking.BrandMappings,
		RepairMappings:     c.Booking.RepairMappings,
		DefaultRepairLabel: c.Booking.DefaultRepairLabel,
	}
}
