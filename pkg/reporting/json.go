package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vqminh/etf-meanrev/internal/backtest"
	"github.com/vqminh/etf-meanrev/pkg/config"
)

// JSONReporter serializes run results for downstream tooling
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// RunReport is the top-level JSON document for one run.
type RunReport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Engine      string                `json:"engine"`
	Config      config.StrategyConfig `json:"config"`
	Result      *backtest.Result      `json:"result"`
}

// Format renders the report with stable two-space indentation.
func (f *JSONReporter) Format(report RunReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// Print writes the report to stdout.
func (f *JSONReporter) Print(report RunReport) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// WriteFile writes the report to a file, creating directories as needed.
func (f *JSONReporter) WriteFile(report RunReport, path string) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
