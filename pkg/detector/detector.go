// Package detector inspects a line-change log before it is configured: which
// columns it has, which datetime layout it uses and whether its rows load.
package detector

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/commitlens/pkg/loader"
)

// maxErrors bounds how many row failures a result keeps.
const maxErrors = 5

// DetectionResult holds the result of inspecting a log file.
type DetectionResult struct {
	Columns     []string       // Header as found, normalised
	Missing     []string       // Required columns absent from the header
	Ignored     []string       // Columns the loader does not read
	Matches     []FormatMatch  // Datetime layouts that parsed, by confidence descending
	SampledRows int            // Number of data rows sampled
	ValidRows   int            // Rows the loader accepted
	Errors      []string       // First few row failures
	Commits     int            // Distinct commits among valid rows
	First, Last time.Time      // Datetime extent of valid rows
	Derived     bool           // Datetime comes from date, time and timezone
	Types       map[string]int // Lines per type tag among valid rows
}

// FormatMatch is a datetime layout with its confidence score.
type FormatMatch struct {
	Format     *DatetimeFormat
	Confidence float64   // 0.0 to 1.0 (fraction of sampled rows matched)
	MatchCount int       // Number of rows that matched
	Sample     string    // Example value that matched
	ParsedTime time.Time // Parsed value of Sample
}

// HasMatch returns true if any datetime layout was detected.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// BestMatch returns the highest confidence layout, or nil.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// Usable reports whether the log would load: the header is complete and
// every sampled row parsed.
func (r *DetectionResult) Usable() bool {
	return len(r.Missing) == 0 && r.SampledRows > 0 && r.ValidRows == r.SampledRows
}

// Detector samples log files.
type Detector struct {
	formats    []*DatetimeFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of rows to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the loader's datetime layouts.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile inspects the head of a log file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return d.DetectFromReader(ctx, f)
}

// DetectFromReader inspects up to the sample size of data rows from r.
func (d *Detector) DetectFromReader(ctx context.Context, r io.Reader) (*DetectionResult, error) {
	header, rows, err := d.sample(r)
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{SampledRows: len(rows), Types: make(map[string]int)}
	if header == nil {
		return result, nil
	}
	d.inspectHeader(result, header)
	d.matchLayouts(result, header, rows)
	if err := d.loadRows(ctx, result, header, rows); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Detector) sample(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	var rows [][]string
	for len(rows) < d.sampleSize {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

func (d *Detector) inspectHeader(result *DetectionResult, header []string) {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		name = normalise(name)
		result.Columns = append(result.Columns, name)
		present[name] = true
		if !loader.IsKnownColumn(name) {
			result.Ignored = append(result.Ignored, name)
		}
	}
	for _, col := range loader.RequiredColumns() {
		if !present[col] {
			result.Missing = append(result.Missing, col)
		}
	}
	if !present[loader.ColumnDatetime] {
		if present[loader.ColumnTime] {
			result.Derived = true
		} else {
			result.Missing = append(result.Missing, loader.ColumnDatetime+"|"+loader.ColumnTime)
		}
	}
}

func (d *Detector) matchLayouts(result *DetectionResult, header []string, rows [][]string) {
	col := -1
	for i, name := range header {
		if normalise(name) == loader.ColumnDatetime {
			col = i
			break
		}
	}
	if col < 0 || len(rows) == 0 {
		return
	}

	stats := make(map[string]*FormatMatch)
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[col])
		if value == "" {
			continue
		}
		for _, format := range d.formats {
			ts, err := time.Parse(format.Layout, value)
			if err != nil {
				continue
			}
			m, ok := stats[format.Layout]
			if !ok {
				m = &FormatMatch{Format: format, Sample: value, ParsedTime: ts}
				stats[format.Layout] = m
			}
			m.MatchCount++
		}
	}

	for _, m := range stats {
		m.Confidence = float64(m.MatchCount) / float64(len(rows))
		result.Matches = append(result.Matches, *m)
	}

	// Confidence first, then the loader's own preference order
	order := make(map[string]int, len(d.formats))
	for i, f := range d.formats {
		order[f.Layout] = i
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return order[result.Matches[i].Format.Layout] < order[result.Matches[j].Format.Layout]
	})
}

// loadRows runs the sample through the real loader, one row at a time, so
// the verdict matches what a full load would say.
func (d *Detector) loadRows(ctx context.Context, result *DetectionResult, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	src := loader.NewReaderSource("sample", &buf)
	defer src.Close()

	commits := make(map[string]bool)
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			var mre *loader.MalformedRecordError
			if !errors.As(err, &mre) {
				return err
			}
			if mre.Row == 0 {
				// Header failures are already reported as missing columns.
				break
			}
			if len(result.Errors) < maxErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s: %v", mre.Row, mre.Field, mre.Err))
			}
			continue
		}

		result.ValidRows++
		commits[rec.Commit] = true
		result.Types[rec.Type]++
		if result.First.IsZero() || rec.Datetime.Before(result.First) {
			result.First = rec.Datetime
		}
		if rec.Datetime.After(result.Last) {
			result.Last = rec.Datetime
		}
	}
	result.Commits = len(commits)
	return nil
}
