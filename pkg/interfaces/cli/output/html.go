package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/repair-configurator/pkg/application/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMLPage renders the configurator state as a standalone page
type HTMLPage struct {
	Title string
}

// TemplateData contains all data for rendering the HTML template
type TemplateData struct {
	dto.StateView
	Title       string
	StateJSON   template.JS
	GeneratedAt string
	Verbose     bool
}

// NewHTMLPage creates a new HTML page generator
func NewHTMLPage() *HTMLPage {
	return &HTMLPage{Title: "Configurateur de réparation"}
}

// GenerateHTML renders the page
func (p *HTMLPage) GenerateHTML(state dto.StateView, config Config) (string, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/configurator.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, &TemplateData{
		StateView:   state,
		Title:       p.Title,
		StateJSON:   template.JS(stateJSON),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Verbose:     config.Verbose,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// generateHTMLOutput writes configurator_state.html to the output
// directory, or the page itself to the writer
func generateHTMLOutput(state dto.StateView, config Config) error {
	page, err := NewHTMLPage().GenerateHTML(state, config)
	if err != nil {
		return err
	}

	if config.OutputDir == "" {
		fmt.Fprint(config.writer(), page)
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, "configurator_state.html")
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.writer(), "📄 HTML page written to %s\n", path)
	}
	return nil
}
