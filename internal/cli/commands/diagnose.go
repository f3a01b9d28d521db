package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/cache"
	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/detector"
	"github.com/ccollicutt/commitlens/pkg/fetch"
	"github.com/ccollicutt/commitlens/pkg/loader"
	"github.com/ccollicutt/commitlens/pkg/projects"
)

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose    bool
	SampleSize int
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Log source file existence and accessibility
- Log columns, datetime layout and malformed rows
- Projects source reachability and schema
- Parsed-log cache health

Example:
  commitlens diagnose commitlens.yaml
  commitlens diagnose -v commitlens.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(commandContext(cmd), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Rows to sample from each log file")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	var results []DiagnosticResult

	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(w, results, opts)
		return nil
	}

	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(w, results, opts)
		return nil
	}

	files, sourceResults := checkLogSources(cfg)
	results = append(results, sourceResults...)
	results = append(results, checkLogFormat(ctx, files, opts)...)
	results = append(results, checkProjects(ctx, cfg, opts)...)
	results = append(results, checkCache(cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'commitlens detect <loc.csv> --write-config commitlens.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = StatusError
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Use 'commitlens detect <loc.csv> --write-config commitlens.yaml' to generate a starter config",
		}
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Found: %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		if strings.Contains(err.Error(), "log_sources") {
			result.Suggests = append(result.Suggests,
				"Add a log_sources list, or set COMMITLENS_LOG_SOURCES")
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Log sources: %d", len(cfg.LogSources)),
		fmt.Sprintf("Plot: %gx%g px", cfg.Render.Width, cfg.Render.Height),
	}
	return cfg, result
}

// checkLogSources reports each configured source and returns the files that
// exist.
func checkLogSources(cfg *config.Config) ([]string, []DiagnosticResult) {
	var results []DiagnosticResult
	var existing []string

	for _, source := range cfg.LogSources {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Log Source: %s", source),
		}

		files, err := loader.ExpandGlobs([]string{source})
		if err != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf("Invalid glob pattern: %v", err)
			results = append(results, result)
			continue
		}

		var found, empty []string
		for _, f := range files {
			info, err := os.Stat(f)
			switch {
			case err != nil || info.IsDir():
			case info.Size() == 0:
				empty = append(empty, f)
			default:
				found = append(found, f)
			}
		}

		switch {
		case len(found) == 0 && len(empty) == 0:
			result.Status = StatusError
			result.Message = "No files match"
			result.Suggests = []string{
				"Check the log file path is correct",
				"A directory source reads every *.csv file directly inside it",
			}
		case len(empty) > 0:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("%d of %d file(s) are empty", len(empty), len(found)+len(empty))
			result.Details = empty
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("Matches %d file(s)", len(found))
			result.Details = found
		}
		existing = append(existing, found...)
		results = append(results, result)
	}

	if len(existing) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Log Files Summary",
			Status:  StatusError,
			Message: "No readable log files found",
			Suggests: []string{
				"Ensure at least one loc.csv exists and is not empty",
			},
		})
	}
	return existing, results
}

// checkLogFormat samples every file with the detector so a malformed row is
// found before a full load fails on it.
func checkLogFormat(ctx context.Context, files []string, opts *DiagnoseOptions) []DiagnosticResult {
	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	results := make([]DiagnosticResult, 0, len(files))

	for _, file := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Log Format: %s", file),
		}

		det, err := d.DetectFromFile(ctx, file)
		if err != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf("Cannot read file: %v", err)
			results = append(results, result)
			continue
		}

		switch {
		case len(det.Missing) > 0:
			result.Status = StatusError
			result.Message = "Missing required columns: " + strings.Join(det.Missing, ", ")
			result.Details = []string{"Header: " + strings.Join(det.Columns, ",")}
			result.Suggests = []string{"Run 'commitlens detect " + file + "' for a full report"}
		case det.ValidRows < det.SampledRows:
			result.Status = StatusError
			result.Message = fmt.Sprintf("%d of %d sampled rows are malformed", det.SampledRows-det.ValidRows, det.SampledRows)
			result.Details = det.Errors
			result.Suggests = []string{"A malformed row fails the whole load; fix or remove it"}
		case det.SampledRows == 0:
			result.Status = StatusWarning
			result.Message = "Header only, no rows"
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("%d sampled rows load (%d commits)", det.ValidRows, det.Commits)
		}

		if best := det.BestMatch(); best != nil && (opts.Verbose || result.Status != StatusOK) {
			result.Details = append(result.Details,
				fmt.Sprintf("Datetime layout: %s (%.0f%%)", best.Format.Name, best.Confidence*100))
		} else if det.Derived && opts.Verbose {
			result.Details = append(result.Details, "Datetime derived from date, time and timezone")
		}
		if len(det.Ignored) > 0 && opts.Verbose {
			result.Details = append(result.Details, "Ignored columns: "+strings.Join(det.Ignored, ", "))
		}
		results = append(results, result)
	}
	return results
}

func checkProjects(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	if cfg.Projects.Source == "" {
		if opts.Verbose {
			return []DiagnosticResult{{
				Check:   "Projects",
				Status:  StatusOK,
				Message: "No projects source configured (optional)",
			}}
		}
		return nil
	}

	result := DiagnosticResult{
		Check: fmt.Sprintf("Projects: %s", cfg.Projects.Source),
	}

	resp := fetch.NewClient().Get(ctx, fetch.Options{Source: cfg.Projects.Source, Timeout: cfg.Projects.Timeout})
	if !resp.Success() {
		result.Status = StatusWarning
		if resp.Error != nil {
			result.Message = fmt.Sprintf("Cannot fetch: %v", resp.Error)
		} else {
			result.Message = fmt.Sprintf("Fetch returned status %d", resp.StatusCode)
		}
		result.Suggests = []string{"The dashboard renders without projects when the fetch fails"}
		return []DiagnosticResult{result}
	}

	list, err := projects.Parse(resp.Body)
	if err != nil {
		result.Status = StatusWarning
		result.Message = "Document does not match the projects schema"
		if errors.Is(err, projects.ErrInvalidProjects) {
			result.Details = strings.Split(strings.TrimPrefix(err.Error(), projects.ErrInvalidProjects.Error()+": "), "; ")
		} else {
			result.Details = []string{err.Error()}
		}
		return []DiagnosticResult{result}
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d project(s) in %d year(s)", len(list), len(projects.RollupByYear(list)))
	if opts.Verbose {
		result.Details = []string{fmt.Sprintf("Fetched %s in %s", humanize.Bytes(uint64(len(resp.Body))), resp.Duration)}
	}
	return []DiagnosticResult{result}
}

func checkCache(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	if cfg.Cache.Path == "" {
		if opts.Verbose {
			return []DiagnosticResult{{
				Check:   "Cache",
				Status:  StatusOK,
				Message: "No cache configured (optional)",
			}}
		}
		return nil
	}

	result := DiagnosticResult{
		Check: fmt.Sprintf("Cache: %s", cfg.Cache.Path),
	}

	info, err := os.Stat(cfg.Cache.Path)
	if os.IsNotExist(err) {
		result.Status = StatusOK
		result.Message = "Not created yet; the first load creates it"
		return []DiagnosticResult{result}
	}
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot access cache: %v", err)
		return []DiagnosticResult{result}
	}

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot open cache: %v", err)
		result.Suggests = []string{
			"Another commitlens process may hold the lock",
			"Logs are parsed directly while the cache is unavailable",
		}
		return []DiagnosticResult{result}
	}
	defer store.Close()

	n, err := store.Len()
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot read cache: %v", err)
		return []DiagnosticResult{result}
	}
	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d cached log file(s), %s", n, humanize.Bytes(uint64(info.Size())))
	return []DiagnosticResult{result}
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	pass := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	_, _ = fmt.Fprintln(w, "=== commitlens Configuration Diagnostics ===")
	_, _ = fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		switch r.Status {
		case StatusOK:
			_, _ = pass.Fprint(w, "[PASS]")
			okCount++
		case StatusWarning:
			_, _ = warn.Fprint(w, "[WARN]")
			warnCount++
		case StatusError:
			_, _ = fail.Fprint(w, "[FAIL]")
			errCount++
		}
		_, _ = fmt.Fprintf(w, " %s\n", r.Check)
		_, _ = fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				_, _ = fmt.Fprintf(w, "      - %s\n", d)
			}
		}
		for _, s := range r.Suggests {
			_, _ = fmt.Fprintf(w, "      Hint: %s\n", s)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "---")
	_, _ = fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		_, _ = fmt.Fprintln(w, "\nFix the errors above before rendering.")
	case warnCount > 0:
		_, _ = fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	default:
		_, _ = fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
