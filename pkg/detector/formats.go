package detector

import (
	"time"

	"github.com/ccollicutt/commitlens/pkg/loader"
)

// DatetimeFormat is one layout the loader accepts in the datetime column.
type DatetimeFormat struct {
	Name     string   // Human-readable name
	Layout   string   // Go time layout for parsing
	Examples []string // Example values
}

var formatNames = map[string]DatetimeFormat{
	time.RFC3339Nano: {
		Name:     "RFC 3339",
		Examples: []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00.5-05:00"},
	},
	"2006-01-02T15:04:05Z0700": {
		Name:     "ISO 8601 basic offset",
		Examples: []string{"2024-01-15T10:30:00-0500"},
	},
	"2006-01-02 15:04:05 -0700": {
		Name:     "git --date=iso",
		Examples: []string{"2024-01-15 10:30:00 -0500"},
	},
	"2006-01-02 15:04:05Z07:00": {
		Name:     "ISO 8601 with space",
		Examples: []string{"2024-01-15 10:30:00+01:00"},
	},
	"Mon Jan 2 15:04:05 2006 -0700": {
		Name:     "git log default",
		Examples: []string{"Mon Jan 15 10:30:00 2024 -0500"},
	},
}

// DefaultFormats returns the datetime layouts the loader tries, in the
// order it tries them.
func DefaultFormats() []*DatetimeFormat {
	formats := make([]*DatetimeFormat, 0, len(loader.DatetimeLayouts))
	for _, layout := range loader.DatetimeLayouts {
		f, ok := formatNames[layout]
		if !ok {
			f = DatetimeFormat{Name: layout}
		}
		f.Layout = layout
		formats = append(formats, &f)
	}
	return formats
}
