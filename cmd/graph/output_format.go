package graph

import "fmt"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT  OutputFormat = "dot"
	OutputFormatJSON OutputFormat = "json"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDOT, OutputFormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid options: %s, %s)", s, OutputFormatDOT, OutputFormatJSON)
	}
}
