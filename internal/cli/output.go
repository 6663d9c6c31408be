package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat is the value of the global --output flag.
type OutputFormat string

const (
	// OutputFormatText prints human-readable lines.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON prints one indented JSON document per command.
	OutputFormatJSON OutputFormat = "json"
)

// OutputWriter renders command results in the selected format.
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

func newOutputWriter(format OutputFormat, w io.Writer) *OutputWriter {
	return &OutputWriter{format: format, writer: w}
}

// Write encodes data as JSON, or calls textFunc for text output.
// Icon paths and window classes are written without HTML escaping.
func (o *OutputWriter) Write(data any, textFunc func()) error {
	if o.format != OutputFormatJSON {
		textFunc()
		return nil
	}

	enc := json.NewEncoder(o.writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ParseOutputFormat parses the --output flag, ignoring case.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputFormatText, "":
		return OutputFormatText, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	}
	return "", fmt.Errorf("invalid output format %q: must be 'text' or 'json'", s)
}
