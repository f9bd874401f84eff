package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name, typically from a CLI flag.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case FormatText, FormatJSON, FormatYAML:
		return OutputFormat(name), nil
	}
	return "", fmt.Errorf("unknown output format %q (valid: text, json, yaml)", name)
}

// FormatProvider is an interface for different report formatters
type FormatProvider interface {
	FormatReport(rep *report.LoadTestReport) string
}

// JSONFormatter formats reports as JSON
type JSONFormatter struct {
	Pretty bool
}

// FormatReport formats a report as JSON
func (f *JSONFormatter) FormatReport(rep *report.LoadTestReport) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(rep, "", "  ")
	} else {
		output, err = json.Marshal(rep)
	}

	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal report: %s"}`, err)
	}

	return string(output)
}

// YAMLFormatter formats reports as YAML
type YAMLFormatter struct{}

// FormatReport formats a report as YAML
func (f *YAMLFormatter) FormatReport(rep *report.LoadTestReport) string {
	output, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal report: %s", err)
	}

	return string(output)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: !noColor}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		// Default to text formatter
		return &Formatter{Verbose: verbose, NoColor: noColor}
	}
}
