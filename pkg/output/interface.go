package output

import (
	"context"
	"io"
)

// Formatter renders a dashboard report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, html).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds the file composition and the narrative.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}
