package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <loc.csv>",
		Short: "Inspect a line-change log before configuring it",
		Long: `Sample a loc.csv file and report what commitlens makes of it: which
columns are present or missing, which datetime layout the datetime column
uses, and whether the sampled rows load.

Optionally generates a starter config file with --write-config.

Example:
  commitlens detect loc.csv
  commitlens detect --sample 500 history/loc.csv
  commitlens detect --write-config commitlens.yaml loc.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of rows to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every matching datetime layout, not just the best")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, logFile, opts.WriteConfig); err != nil {
			return err
		}
		if opts.Output != "json" {
			_, _ = fmt.Fprintf(w, "Wrote starter config to: %s\n\n", opts.WriteConfig)
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, logFile, opts)
	case "text":
		outputDetectText(w, result, logFile, opts)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) {
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)

	_, _ = fmt.Fprintln(w, "=== Log Detection ===")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "File: %s\n", logFile)
	_, _ = fmt.Fprintf(w, "Rows sampled: %d\n", result.SampledRows)
	_, _ = fmt.Fprintf(w, "Rows loaded: %d\n", result.ValidRows)
	_, _ = fmt.Fprintln(w)

	if result.Columns == nil {
		_, _ = fmt.Fprintln(w, "The file is empty.")
		return
	}

	_, _ = fmt.Fprintf(w, "Columns: %s\n", strings.Join(result.Columns, ", "))
	if len(result.Missing) > 0 {
		_, _ = bad.Fprintf(w, "Missing: %s\n", strings.Join(result.Missing, ", "))
	}
	if len(result.Ignored) > 0 {
		_, _ = fmt.Fprintf(w, "Ignored: %s\n", strings.Join(result.Ignored, ", "))
	}
	_, _ = fmt.Fprintln(w)

	switch best := result.BestMatch(); {
	case best != nil:
		_, _ = fmt.Fprintf(w, "Datetime layout: %s\n", best.Format.Name)
		_, _ = fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d rows matched)\n",
			best.Confidence*100, best.MatchCount, result.SampledRows)
		_, _ = fmt.Fprintf(w, "Sample: %s\n", best.Sample)
		_, _ = fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format(time.RFC3339))
		_, _ = fmt.Fprintln(w)
	case result.Derived:
		_, _ = fmt.Fprintln(w, "Datetime: derived from date, time and timezone")
		_, _ = fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		_, _ = fmt.Fprintln(w, "--- Other matching layouts ---")
		for i, m := range result.Matches[1:] {
			_, _ = fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			_, _ = fmt.Fprintf(w, "   layout: %q\n", m.Format.Layout)
		}
		_, _ = fmt.Fprintln(w)
	}

	if result.ValidRows > 0 {
		_, _ = fmt.Fprintf(w, "Commits: %d\n", result.Commits)
		_, _ = fmt.Fprintf(w, "Span: %s to %s\n", result.First.Format(time.RFC3339), result.Last.Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "Types: %s\n", formatTypes(result.Types))
		_, _ = fmt.Fprintln(w)
	}

	for _, e := range result.Errors {
		_, _ = bad.Fprintf(w, "Error: %s\n", e)
	}

	if result.Usable() {
		_, _ = good.Fprintln(w, "The sampled rows load.")
	} else {
		_, _ = bad.Fprintln(w, "This log would not load as is.")
	}
}

// formatTypes lists type tags by line count, most first.
func formatTypes(types map[string]int) string {
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if types[keys[i]] != types[keys[j]] {
			return types[keys[i]] > types[keys[j]]
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, types[k])
	}
	return strings.Join(parts, " ")
}

// JSONMatch represents a layout match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Layout     string  `json:"layout"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	Sample     string  `json:"sample"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File        string         `json:"file"`
	Usable      bool           `json:"usable"`
	Columns     []string       `json:"columns"`
	Missing     []string       `json:"missing,omitempty"`
	Ignored     []string       `json:"ignored,omitempty"`
	Derived     bool           `json:"derived,omitempty"`
	Matches     []JSONMatch    `json:"matches"`
	SampledRows int            `json:"sampled_rows"`
	ValidRows   int            `json:"valid_rows"`
	Commits     int            `json:"commits"`
	Types       map[string]int `json:"types"`
	Errors      []string       `json:"errors,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:        logFile,
		Usable:      result.Usable(),
		Columns:     result.Columns,
		Missing:     result.Missing,
		Ignored:     result.Ignored,
		Derived:     result.Derived,
		SampledRows: result.SampledRows,
		ValidRows:   result.ValidRows,
		Commits:     result.Commits,
		Types:       result.Types,
		Errors:      result.Errors,
		Matches:     make([]JSONMatch, 0),
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Layout:     m.Format.Layout,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			Sample:     m.Sample,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config for logFile. It refuses to overwrite
// and to describe a log that is missing required columns.
func writeStarterConfig(result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}
	if result.Columns == nil {
		return errors.New("cannot generate config: log file is empty")
	}
	if len(result.Missing) > 0 {
		return fmt.Errorf("cannot generate config: log is missing columns %s", strings.Join(result.Missing, ", "))
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(generateStarterConfig(logFile, result)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateStarterConfig creates a YAML config template with the defaults
// spelled out.
func generateStarterConfig(logFile string, result *detector.DetectionResult) string {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	datetime := "derived from date, time and timezone"
	if best := result.BestMatch(); best != nil {
		datetime = fmt.Sprintf("%s (%.0f%% of sampled rows)", best.Format.Name, best.Confidence*100)
	}

	def := config.DefaultConfig()
	return fmt.Sprintf(`# commitlens configuration
# Generated by: commitlens detect
# Datetime: %s

log_sources:
  - %s
  # Add more logs, globs or directories of *.csv files:
  # - history/*.csv

# Link commits to <repo_url>/commit/<id>:
# repo_url: https://github.com/owner/repo

render:
  width: %g
  height: %g
  margin:
    top: %g
    right: %g
    bottom: %g
    left: %g
  radius_min: %g
  radius_max: %g
  # Read hour of day in one zone instead of each commit's own offset:
  # location: UTC

# projects:
#   source: projects.json
#   timeout: 10s

# cache:
#   path: .commitlens.db

server:
  addr: %q
  # allowed_origins: ["https://example.com"]
  # watch: true
`, datetime, absLogFile,
		def.Render.Width, def.Render.Height,
		def.Render.Margin.Top, def.Render.Margin.Right, def.Render.Margin.Bottom, def.Render.Margin.Left,
		def.Render.RadiusMin, def.Render.RadiusMax,
		def.Server.Addr)
}
