package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// RecordSource provides an iterator over parsed log records.
// Implementations are for sequential access only.
type RecordSource interface {
	// Next returns the next parsed record.
	// Returns io.EOF when no more records are available.
	// A row that fails to parse ends the iteration with a *MalformedRecordError.
	Next(ctx context.Context) (*LineRecord, error)

	// Close releases any resources held by the source.
	Close() error
}

// ErrMalformedRecord is matched by every row or header parsing failure.
var ErrMalformedRecord = errors.New("malformed record")

var (
	errMissingColumn = errors.New("column missing from header")
	errEmptyField    = errors.New("required field is empty")
	errOutOfRange    = errors.New("value out of range")
)

// MalformedRecordError describes the row that aborted a load.
type MalformedRecordError struct {
	// Source is the file or reader name.
	Source string
	// Row is the 1-based data row, 0 for the header.
	Row int
	// Field is the column that failed.
	Field string
	// Value is the raw field text.
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: header: %s: %v", e.Source, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: row %d: %s %q: %v", e.Source, e.Row, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedRecord as a match.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Collect drains a source into a slice. Any error discards the records read so far.
func Collect(ctx context.Context, src RecordSource) ([]LineRecord, error) {
	var records []LineRecord
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
}
