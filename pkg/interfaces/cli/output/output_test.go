package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/repair-configurator/pkg/application/dto"
)

func sampleState() dto.StateView {
	return dto.StateView{
		Session:    "session-1",
		Mode:       "filtering",
		Selections: map[string]string{"repair": "Écran"},
		Steps: []dto.StepView{
			{
				Field:          "repair",
				Step:           1,
				Selected:       "Écran",
				AvailableCount: 2,
				Options: []dto.OptionView{
					{Value: "Batterie", Available: true, Selectable: true},
					{Value: "Écran", Available: true, Selectable: true, Selected: true},
				},
			},
			{
				Field:          "quality",
				Step:           2,
				AvailableCount: 1,
				Options: []dto.OptionView{
					{Value: "Compatible", Selectable: true},
					{Value: "Origine", Available: true, Selectable: true},
				},
			},
		},
	}
}

func TestGenerateText(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleState(), Config{Format: "text", Writer: &buf}); err != nil {
		t.Fatalf("Failed to render text: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"(filtering)", "✅ Écran", "• Origine", "Complete every step"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Compatible") {
		t.Errorf("Expected unavailable option hidden outside verbose mode, got:\n%s", out)
	}

	buf.Reset()
	_ = Generate(sampleState(), Config{Format: "text", Writer: &buf, Verbose: true})
	if !strings.Contains(buf.String(), "↺ Compatible") {
		t.Errorf("Expected selectable option in verbose mode, got:\n%s", buf.String())
	}
}

func TestGenerateTextWithQuote(t *testing.T) {
	state := sampleState()
	state.Complete = true
	state.Quote = &dto.QuoteView{Status: "priced", Amount: "89", Display: "89 €", Device: "Apple iPhone iPhone 12", TimeEstimate: "45 minutes"}

	var buf bytes.Buffer
	if err := Generate(state, Config{Writer: &buf}); err != nil {
		t.Fatalf("Failed to render text: %v", err)
	}
	if !strings.Contains(buf.String(), "Price:    89 €") {
		t.Errorf("Expected quote price, got:\n%s", buf.String())
	}
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleState(), Config{Format: "json", Writer: &buf}); err != nil {
		t.Fatalf("Failed to render JSON: %v", err)
	}

	var decoded dto.StateView
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded.Steps[0].Selected != "Écran" {
		t.Errorf("Expected selected repair, got %q", decoded.Steps[0].Selected)
	}

	dir := t.TempDir()
	if err := Generate(sampleState(), Config{Format: "json", OutputDir: dir, Writer: &buf}); err != nil {
		t.Fatalf("Failed to save JSON: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "configurator_state.json")); err != nil {
		t.Errorf("Expected JSON file, got %v", err)
	}
}

func TestGenerateCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleState(), Config{Format: "csv", Writer: &buf}); err != nil {
		t.Fatalf("Failed to render CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header and 4 options, got %d lines", len(lines))
	}
	if lines[3] != "2,quality,Compatible,false,true,false" {
		t.Errorf("Unexpected CSV line: %s", lines[3])
	}
}

func TestGenerateHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(sampleState(), Config{Format: "html", Writer: &buf}); err != nil {
		t.Fatalf("Failed to render HTML: %v", err)
	}

	page := buf.String()
	for _, want := range []string{`<span class="option selected">Écran</span>`, `<span class="option">Origine</span>`, "Complétez chaque étape", "window.configuratorState = {"} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if strings.Contains(page, "option unavailable") {
		t.Error("Expected unavailable options hidden outside verbose mode")
	}

	dir := t.TempDir()
	if err := Generate(sampleState(), Config{Format: "html", OutputDir: dir, Writer: &buf}); err != nil {
		t.Fatalf("Failed to save HTML: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "configurator_state.html")); err != nil {
		t.Errorf("Expected HTML file, got %v", err)
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	if err := Generate(sampleState(), Config{Format: "xml"}); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestFormatSelections(t *testing.T) {
	if got := FormatSelections(sampleState()); got != "repair=Écran" {
		t.Errorf("Expected repair=Écran, got %q", got)
	}
	if got := FormatSelections(dto.StateView{}); got != "(none)" {
		t.Errorf("Expected (none), got %q", got)
	}
}
