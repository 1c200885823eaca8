package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := parse(os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cmd == nil {
		return
	}

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parse(name string, args []string) (command, error) {
	switch name {
	case "quote", "session":
		return parseSession(name, args)
	case "serve":
		return parseServe(args)
	case "import":
		return parseImport(args)
	case "generate":
		return parseGenerate(args)
	case "help", "-h", "-help", "--help":
		usage()
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

// sharedFlags registers the options every dataset-backed command accepts
func sharedFlags(fs *flag.FlagSet, cfg *commands.Config) {
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&cfg.EnvFile, "env", "", ".env file (default: .env when present)")
	fs.StringVar(&cfg.DataSource, "source", "", "Data source: csv, postgres")
	fs.StringVar(&cfg.CSVPath, "csv", "", "Price list file(s), comma separated")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "Postgres connection string")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&cfg.Help, "help", false, "Show help message")
}

func parseSession(name string, args []string) (command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var cfg commands.SessionConfig
	sharedFlags(fs, &cfg.Config)
	fs.StringVar(&cfg.Format, "format", "text", "Output format: text, json, csv, html")
	fs.StringVar(&cfg.OutputDir, "output", "", "Output directory for results (optional)")
	fs.BoolVar(&cfg.NoFilter, "no-filter", false, "Disable price-based filtering")
	fs.BoolVar(&cfg.Book, "book", false, "Print the appointment URL for a priced quote")

	values := make(map[entities.Field]*string, len(entities.AllFields))
	for _, f := range entities.AllFields {
		values[f] = fs.String(f.String(), "", fmt.Sprintf("Selected %s", f))
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Selections = make(map[entities.Field]string, len(values))
	for f, v := range values {
		if *v != "" {
			cfg.Selections[f] = *v
		}
	}
	cfg.Interactive = name == "session"

	return commands.NewConfiguratorCommand(cfg), nil
}

func parseServe(args []string) (command, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	var cfg commands.ServeConfig
	sharedFlags(fs, &cfg.Config)
	fs.BoolVar(&cfg.NoFilter, "no-filter", false, "Disable price-based filtering")
	fs.StringVar(&cfg.Addr, "addr", "", "Listen address (default from config, :8080)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 30*time.Minute, "Idle time before a session is dropped")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Help {
		fs.Usage()
		return nil, nil
	}
	return commands.NewServeCommand(cfg), nil
}

func parseImport(args []string) (command, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	var cfg commands.Config
	sharedFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Help {
		fs.Usage()
		return nil, nil
	}
	return commands.NewImportCommand(cfg), nil
}

func parseGenerate(args []string) (command, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)

	var cfg commands.GenerateConfig
	fs.IntVar(&cfg.Brands, "brands", 0, "Number of brands (default: all)")
	fs.IntVar(&cfg.Series, "series", 3, "Series per brand")
	fs.IntVar(&cfg.Models, "models", 3, "Models per series")
	fs.Float64Var(&cfg.UnpricedPct, "unpriced", 0.1, "Share of rows without a price (0.0-1.0)")
	fs.StringVar(&cfg.OutputDir, "output", "./data", "Output directory")
	fs.StringVar(&cfg.FileName, "file", "prices.csv", "Output file name")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Random seed (0 for time-based)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return commands.NewGenerateCommand(cfg), nil
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: configurator <command> [options]

Commands:
  quote      Price one repair from flags
  session    Interactive configurator session
  serve      HTTP API for configurator sessions
  import     Copy CSV price lists into postgres
  generate   Write a sample price list

Run 'configurator <command> -help' for command options.
`)
}
