package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/interfaces/cli/output"
)

// SessionConfig holds configuration for the configurator command
type SessionConfig struct {
	Config
	// Selections are applied in step order before anything else
	Selections  map[entities.Field]string
	Interactive bool
	Book        bool
	In          io.Reader
	Out         io.Writer
}

// ConfiguratorCommand answers one quote from flags, or runs an
// interactive session
type ConfiguratorCommand struct {
	config  SessionConfig
	runtime *Runtime
	out     io.Writer
}

// NewConfiguratorCommand creates a new configurator command with the given configuration
func NewConfiguratorCommand(config SessionConfig) *ConfiguratorCommand {
	if config.In == nil {
		config.In = os.Stdin
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &ConfiguratorCommand{config: config, out: config.Out}
}

// WithRuntime uses an already loaded runtime instead of bootstrapping one
func (c *ConfiguratorCommand) WithRuntime(runtime *Runtime) *ConfiguratorCommand {
	c.runtime = runtime
	return c
}

// Execute runs the configurator command
func (c *ConfiguratorCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.runtime == nil {
		runtime, err := Bootstrap(ctx, c.config.Config)
		if err != nil {
			return err
		}
		defer runtime.Logger.Sync()
		c.runtime = runtime
	}

	configurator, err := c.runtime.NewConfigurator()
	if err != nil {
		return fmt.Errorf("failed to start configurator: %w", err)
	}

	for _, f := range entities.AllFields {
		value, ok := c.config.Selections[f]
		if !ok || value == "" {
			continue
		}
		if _, err := configurator.ApplySelection(f, value); err != nil {
			return fmt.Errorf("cannot select %s: %w", f, err)
		}
	}

	if c.config.Interactive {
		return c.runInteractiveSession(ctx, configurator)
	}

	if err := output.Generate(configurator.State(), c.outputConfig()); err != nil {
		return err
	}

	if c.config.Book {
		bookingURL, err := configurator.PrepareBooking(c.runtime.Booking)
		if err != nil {
			return fmt.Errorf("booking unavailable: %w", err)
		}
		fmt.Fprintf(c.out, "📅 Book this repair: %s\n", bookingURL)
	}
	return nil
}

func (c *ConfiguratorCommand) outputConfig() output.Config {
	return output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.out,
	}
}

func (c *ConfiguratorCommand) runInteractiveSession(ctx context.Context, configurator *services.Configurator) error {
	fmt.Fprintln(c.out, "=== Repair Configurator Session ===")
	fmt.Fprintln(c.out, "Type 'help' for available commands")
	for _, warning := range configurator.Warnings() {
		fmt.Fprintf(c.out, "⚠️  %s\n", warning)
	}
	fmt.Fprintln(c.out)

	scanner := bufio.NewScanner(c.config.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, "configurator> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := c.processCommand(configurator, line)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		fmt.Fprintln(c.out)
	}

	return scanner.Err()
}

func (c *ConfiguratorCommand) processCommand(configurator *services.Configurator, line string) (bool, error) {
	parts := strings.Fields(line)
	command := parts[0]
	args := parts[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "set", "s":
		return false, c.handleSet(configurator, args)
	case "clear":
		return false, c.handleClear(configurator, args)
	case "reset":
		configurator.Reset()
		fmt.Fprintln(c.out, "🔄 Selections cleared")
	case "options", "o":
		return false, c.handleOptions(configurator, args)
	case "state":
		return false, output.Generate(configurator.State(), output.Config{Format: "text", Verbose: true, Writer: c.out})
	case "quote", "q":
		return false, c.handleQuote(configurator)
	case "book":
		return false, c.handleBook(configurator)
	case "events":
		return false, c.handleShowEvents(configurator, args)
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return false, nil
}

func (c *ConfiguratorCommand) handleSet(configurator *services.Configurator, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <field> <value>")
	}

	value := strings.Join(args[1:], " ")
	result, err := configurator.ApplyNamed(args[0], value)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidSelection) {
			f, _ := entities.ParseField(args[0])
			fmt.Fprintf(c.out, "❌ %q is not available for %s\n", value, f)
			output.WriteStep(c.out, configurator.State().Steps[f], false)
			return nil
		}
		return err
	}

	fmt.Fprintf(c.out, "✅ %s = %s\n", result.Field, value)
	for _, f := range result.Cleared {
		fmt.Fprintf(c.out, "↺  %s cleared\n", f)
	}

	state := configurator.State()
	if state.Quote != nil {
		output.WriteQuote(c.out, *state.Quote)
		return nil
	}
	for _, step := range state.Steps {
		if step.Selected == "" {
			output.WriteStep(c.out, step, false)
			break
		}
	}
	return nil
}

func (c *ConfiguratorCommand) handleClear(configurator *services.Configurator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: clear <field>")
	}
	f, err := entities.ParseField(args[0])
	if err != nil {
		return err
	}
	configurator.Clear(f)
	fmt.Fprintf(c.out, "↺  %s cleared\n", f)
	return nil
}

func (c *ConfiguratorCommand) handleOptions(configurator *services.Configurator, args []string) error {
	state := configurator.State()
	if len(args) == 0 {
		fmt.Fprintf(c.out, "Selections: %s\n", output.FormatSelections(state))
		for _, step := range state.Steps {
			output.WriteStep(c.out, step, false)
		}
		return nil
	}

	f, err := entities.ParseField(args[0])
	if err != nil {
		return err
	}
	output.WriteStep(c.out, state.Steps[f], true)
	return nil
}

func (c *ConfiguratorCommand) handleQuote(configurator *services.Configurator) error {
	quote, err := configurator.ResolvePrice()
	if err != nil {
		return err
	}
	output.WriteQuote(c.out, configurator.QuoteView(quote))
	return nil
}

func (c *ConfiguratorCommand) handleBook(configurator *services.Configurator) error {
	bookingURL, err := configurator.PrepareBooking(c.runtime.Booking)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "📅 %s\n", bookingURL)
	return nil
}

func (c *ConfiguratorCommand) handleShowEvents(configurator *services.Configurator, args []string) error {
	limit := 10
	if len(args) > 0 {
		if l, err := strconv.Atoi(args[0]); err == nil {
			limit = l
		}
	}

	recorded, err := configurator.Events().ReadEvents(configurator.ID(), 1)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Recent Events (last %d) ===\n", limit)
	start := len(recorded) - limit
	if start < 0 {
		start = 0
	}
	for _, event := range recorded[start:] {
		fmt.Fprintf(c.out, "[%s] %s %+v\n", event.Timestamp().Format("15:04:05"), event.Type(), event.Data())
	}
	return nil
}

func (c *ConfiguratorCommand) showHelp() {
	fmt.Fprint(c.out, `Repair Configurator - repair price quotes for phones and tablets

USAGE:
    configurator quote [OPTIONS]           # One quote from flags
    configurator session [OPTIONS]         # Interactive session
    configurator serve [OPTIONS]           # HTTP API
    configurator import [OPTIONS]          # Copy a CSV price list into postgres
    configurator generate [OPTIONS]        # Write a sample price list

OPTIONS:
    -config <file>      YAML configuration file
    -env <file>         .env file (default: .env when present)
    -source <name>      Data source: csv, postgres
    -csv <files>        Price list file(s), comma separated
    -database-url <url> Postgres connection string
    -repair <value>     Repair type
    -quality <value>    Part quality
    -brand <value>      Device brand
    -series <value>     Device series
    -model <value>      Device model
    -book               Print the appointment URL for a priced quote
    -no-filter          Disable price-based filtering
    -format <fmt>       Output format: text, json, csv, html (default: text)
    -output <dir>       Output directory for json/csv results (optional)
    -verbose            Enable verbose output
    -help               Show this help message

PRICE LIST FORMAT (semicolon separated, UTF-8, BOM allowed):
    Type de réparation;Qualité;Marque;Série;Modèle;Prix Standard
    Écran;Origine;Apple;iPhone;iPhone 12;89
    Écran;Compatible;Apple;iPhone;iPhone 12;0

    A price of 0 or an empty price marks the combination as unavailable.
    A text price such as "Sur devis" is quoted as is.

EXAMPLES:
    configurator quote -csv prices.csv -repair Écran -quality Origine \
        -brand Apple -series iPhone -model "iPhone 12" -book
    configurator session -config configurator.yaml
`)
}

func (c *ConfiguratorCommand) printInteractiveHelp() {
	fmt.Fprintln(c.out, `Available commands:

  set <field> <value>
      Select a value; later steps that no longer fit are cleared
      Example: set model iPhone 13 Mini

  clear <field>
      Unset one step

  reset
      Clear every selection

  options [field]
      List available options, or every option of one step
      Example: options quality

  state
      Show every step with all its options

  quote, q
      Show the price of the complete selection

  book
      Print the appointment URL for the current quote

  events [limit]
      Show recent session events (default: 10)

  help, h
      Show this help message

  quit, exit
      Leave the session

Fields: repair, quality, brand, series, model`)
}
