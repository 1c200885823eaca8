package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/repair-configurator/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Writer defaults to stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate renders the configurator state in the specified format
func Generate(state dto.StateView, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(state, config)
	case "json":
		return generateJSONOutput(state, config)
	case "csv":
		return generateCSVOutput(state, config)
	case "html":
		return generateHTMLOutput(state, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(state dto.StateView, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "🔧 Repair Configurator (%s)\n", state.Mode)
	fmt.Fprintf(w, "==============================\n\n")

	for _, warning := range state.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n\n", warning)
	}

	for _, step := range state.Steps {
		WriteStep(w, step, config.Verbose)
	}

	if state.Quote != nil {
		WriteQuote(w, *state.Quote)
	} else if !state.Complete {
		fmt.Fprintf(w, "💬 Complete every step to get a price\n")
	}
	return nil
}

// WriteStep prints one step with its options. Unavailable options are
// listed in verbose mode only.
func WriteStep(w io.Writer, step dto.StepView, verbose bool) {
	selected := step.Selected
	if selected == "" {
		selected = "-"
	}
	fmt.Fprintf(w, "%d. %-8s %s (%d available)\n", step.Step, step.Field, selected, step.AvailableCount)

	for _, option := range step.Options {
		switch {
		case option.Selected:
			fmt.Fprintf(w, "     ✅ %s\n", option.Value)
		case option.Available:
			fmt.Fprintf(w, "     • %s\n", option.Value)
		case option.Selectable && verbose:
			fmt.Fprintf(w, "     ↺ %s (resets later steps)\n", option.Value)
		case verbose:
			fmt.Fprintf(w, "     ✗ %s\n", option.Value)
		}
	}
}

// WriteQuote prints a quote summary
func WriteQuote(w io.Writer, quote dto.QuoteView) {
	fmt.Fprintf(w, "💶 Quote\n")
	fmt.Fprintf(w, "  Device:   %s\n", quote.Device)
	fmt.Fprintf(w, "  Repair:   %s (%s)\n", quote.Repair, quote.Quality)
	fmt.Fprintf(w, "  Price:    %s\n", quote.Display)
	fmt.Fprintf(w, "  Duration: %s\n", quote.TimeEstimate)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(state dto.StateView, config Config) error {
	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "configurator_state.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one line per listed option
func generateCSVOutput(state dto.StateView, config Config) error {
	w := config.writer()
	var file *os.File

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		var err error
		file, err = os.Create(filepath.Join(config.OutputDir, "configurator_options.csv"))
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer file.Close()
		w = file
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"step", "field", "value", "available", "selectable", "selected"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, step := range state.Steps {
		for _, option := range step.Options {
			record := []string{
				strconv.Itoa(step.Step),
				step.Field,
				option.Value,
				strconv.FormatBool(option.Available),
				strconv.FormatBool(option.Selectable),
				strconv.FormatBool(option.Selected),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	if file != nil && config.Verbose {
		fmt.Fprintf(config.writer(), "💾 CSV results saved to: %s\n", file.Name())
	}
	return nil
}

// FormatSelections renders selections as "field=value" pairs in step order
func FormatSelections(state dto.StateView) string {
	var parts []string
	for _, step := range state.Steps {
		if step.Selected != "" {
			parts = append(parts, step.Field+"="+step.Selected)
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}
