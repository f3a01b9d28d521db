package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Option configures a CSVSource.
type Option func(*CSVSource)

// WithLocation converts every parsed Datetime into loc, so hour-of-day is
// read on that wall clock instead of the offset recorded in the log.
func WithLocation(loc *time.Location) Option {
	return func(s *CSVSource) {
		s.location = loc
	}
}

type opener struct {
	name string
	open func() (io.ReadCloser, error)
}

// CSVSource implements RecordSource over one or more CSV logs read in order.
type CSVSource struct {
	inputs   []opener
	location *time.Location

	current     io.ReadCloser
	reader      *csv.Reader
	columns     map[string]int
	currentName string
	row         int
	index       int
}

// NewCSVSource creates a RecordSource that reads the given files.
func NewCSVSource(files []string, opts ...Option) *CSVSource {
	inputs := make([]opener, len(files))
	for i, path := range files {
		path := path
		inputs[i] = opener{name: path, open: func() (io.ReadCloser, error) {
			f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
			if err != nil {
				return nil, fmt.Errorf("opening log file %s: %w", path, err)
			}
			return f, nil
		}}
	}
	return newSource(inputs, opts)
}

// NewReaderSource creates a RecordSource over a single reader.
// The reader is not closed by the source.
func NewReaderSource(name string, r io.Reader, opts ...Option) *CSVSource {
	return newSource([]opener{{name: name, open: func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}}}, opts)
}

func newSource(inputs []opener, opts []Option) *CSVSource {
	s := &CSVSource{inputs: inputs, index: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load parses a whole log from r.
func Load(ctx context.Context, r io.Reader, opts ...Option) ([]LineRecord, error) {
	src := NewReaderSource("input", r, opts...)
	defer src.Close()
	return Collect(ctx, src)
}

// LoadFiles parses every file in order into one record sequence.
func LoadFiles(ctx context.Context, files []string, opts ...Option) ([]LineRecord, error) {
	src := NewCSVSource(files, opts...)
	defer src.Close()
	return Collect(ctx, src)
}

// Next returns the next record, moving on to the next input when one is exhausted.
func (s *CSVSource) Next(ctx context.Context) (*LineRecord, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.reader == nil {
			if err := s.openNext(); err != nil {
				return nil, err
			}
			continue
		}

		fields, err := s.reader.Read()
		if err == io.EOF {
			if err := s.closeCurrent(); err != nil {
				return nil, err
			}
			continue
		}
		s.row++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &MalformedRecordError{Source: s.currentName, Row: s.row, Field: "row", Err: err}
			}
			return nil, fmt.Errorf("reading %s: %w", s.currentName, err)
		}
		return s.parse(fields)
	}
}

// Close releases the currently open input.
func (s *CSVSource) Close() error {
	return s.closeCurrent()
}

func (s *CSVSource) openNext() error {
	s.index++
	if s.index >= len(s.inputs) {
		return io.EOF
	}
	in := s.inputs[s.index]
	rc, err := in.open()
	if err != nil {
		return err
	}

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		// An empty file has no header and no rows.
		return rc.Close()
	}
	if err != nil {
		_ = rc.Close()
		return &MalformedRecordError{Source: in.name, Field: "header", Err: err}
	}

	columns, err := indexColumns(header)
	if err != nil {
		_ = rc.Close()
		var mre *MalformedRecordError
		if errors.As(err, &mre) {
			mre.Source = in.name
		}
		return err
	}

	s.current = rc
	s.reader = reader
	s.columns = columns
	s.currentName = in.name
	s.row = 0
	return nil
}

func (s *CSVSource) closeCurrent() error {
	s.reader = nil
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		return err
	}
	return nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, &MalformedRecordError{Field: col, Err: errMissingColumn}
		}
	}
	_, hasDatetime := columns[ColumnDatetime]
	_, hasTime := columns[ColumnTime]
	if !hasDatetime && !hasTime {
		return nil, &MalformedRecordError{Field: ColumnDatetime + "|" + ColumnTime, Err: errMissingColumn}
	}
	return columns, nil
}

func (s *CSVSource) field(fields []string, col string) string {
	i, ok := s.columns[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func (s *CSVSource) malformed(col, value string, err error) error {
	return &MalformedRecordError{Source: s.currentName, Row: s.row, Field: col, Value: value, Err: err}
}

func (s *CSVSource) parse(fields []string) (*LineRecord, error) {
	for _, col := range requiredValues {
		if s.field(fields, col) == "" {
			return nil, s.malformed(col, "", errEmptyField)
		}
	}

	rec := &LineRecord{
		Commit:   s.field(fields, ColumnCommit),
		File:     s.field(fields, ColumnFile),
		Type:     s.field(fields, ColumnType),
		Author:   s.field(fields, ColumnAuthor),
		Date:     s.field(fields, ColumnDate),
		Time:     s.field(fields, ColumnTime),
		Timezone: s.field(fields, ColumnTimezone),
		Source:   s.currentName,
		Row:      s.row,
	}

	var err error
	if rec.Line, err = s.count(fields, ColumnLine, 1); err != nil {
		return nil, err
	}
	if rec.Depth, err = s.count(fields, ColumnDepth, 0); err != nil {
		return nil, err
	}
	if rec.Length, err = s.count(fields, ColumnLength, 0); err != nil {
		return nil, err
	}

	zone, err := ParseOffset(rec.Timezone)
	if err != nil {
		return nil, s.malformed(ColumnTimezone, rec.Timezone, err)
	}
	if rec.Day, err = Midnight(rec.Date, zone); err != nil {
		return nil, s.malformed(ColumnDate, rec.Date, err)
	}

	if raw := s.field(fields, ColumnDatetime); raw != "" {
		if rec.Datetime, err = ParseDatetime(raw); err != nil {
			return nil, s.malformed(ColumnDatetime, raw, err)
		}
	} else {
		if rec.Time == "" {
			return nil, s.malformed(ColumnTime, "", errEmptyField)
		}
		if rec.Datetime, err = Combine(rec.Date, rec.Time, zone); err != nil {
			return nil, s.malformed(ColumnTime, rec.Time, err)
		}
	}

	if s.location != nil {
		rec.Datetime = rec.Datetime.In(s.location)
	}
	return rec, nil
}

// count parses an integer column, accepting integral floats such as "3.0".
func (s *CSVSource) count(fields []string, col string, minValue int) (int, error) {
	raw := s.field(fields, col)
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, s.malformed(col, raw, fmt.Errorf("not an integer: %w", err))
		}
		n = int(f)
	}
	if n < minValue {
		return 0, s.malformed(col, raw, fmt.Errorf("%w: must be >= %d", errOutOfRange, minValue))
	}
	return n, nil
}
