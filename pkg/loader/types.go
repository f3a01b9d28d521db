// Package loader reads line-level change logs (loc.csv) into typed records.
package loader

import "time"

// Column names recognised in the log header. Other columns are ignored.
const (
	ColumnCommit   = "commit"
	ColumnFile     = "file"
	ColumnType     = "type"
	ColumnLine     = "line"
	ColumnDepth    = "depth"
	ColumnLength   = "length"
	ColumnAuthor   = "author"
	ColumnDate     = "date"
	ColumnTime     = "time"
	ColumnTimezone = "timezone"
	ColumnDatetime = "datetime"
)

// requiredColumns must appear in the header.
var requiredColumns = []string{
	ColumnCommit, ColumnFile, ColumnType, ColumnLine, ColumnDepth,
	ColumnLength, ColumnAuthor, ColumnDate, ColumnTimezone,
}

// RequiredColumns returns the header columns every log must carry. One of
// ColumnDatetime or ColumnTime is also needed.
func RequiredColumns() []string {
	return append([]string(nil), requiredColumns...)
}

// IsKnownColumn reports whether name is read by the loader.
func IsKnownColumn(name string) bool {
	switch name {
	case ColumnCommit, ColumnFile, ColumnType, ColumnLine, ColumnDepth, ColumnLength,
		ColumnAuthor, ColumnDate, ColumnTime, ColumnTimezone, ColumnDatetime:
		return true
	}
	return false
}

// requiredValues must be non-empty on every row.
var requiredValues = []string{
	ColumnCommit, ColumnFile, ColumnType, ColumnLine, ColumnDepth,
	ColumnLength, ColumnDate, ColumnTimezone,
}

// LineRecord is one changed source line of one commit.
type LineRecord struct {
	// Commit is the revision identifier the line belongs to.
	Commit string `json:"commit"`

	// File is the path of the file containing the line.
	File string `json:"file"`

	// Type is the language or category tag of the file (js, css, html...).
	Type string `json:"type"`

	// Line is the 1-based line number within the file.
	Line int `json:"line"`

	// Depth is the indentation nesting depth of the line.
	Depth int `json:"depth"`

	// Length is the character length of the line.
	Length int `json:"length"`

	Author   string `json:"author"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`

	// Datetime is the absolute commit instant. Taken from the datetime
	// column when present, otherwise derived from date, time and timezone.
	Datetime time.Time `json:"datetime"`

	// Day is the commit date at local midnight in the commit's timezone.
	Day time.Time `json:"day"`

	// Source is the log file the record came from.
	Source string `json:"source,omitempty"`

	// Row is the 1-based data row within Source (header excluded).
	Row int `json:"row,omitempty"`
}
