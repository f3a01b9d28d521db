package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DatetimeLayouts are tried in order when parsing the datetime column.
var DatetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05Z07:00",
	"Mon Jan 2 15:04:05 2006 -0700",
}

// clockLayouts are accepted for the time column.
var clockLayouts = []string{"15:04:05", "15:04"}

// ParseDatetime parses an absolute timestamp using DatetimeLayouts.
func ParseDatetime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range DatetimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known layout matches %q", raw)
}

// ParseOffset parses a timezone column value (Z, UTC, +HH, +HHMM, +HH:MM)
// into a fixed zone named after the input.
func ParseOffset(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "Z" || strings.EqualFold(tz, "UTC") {
		return time.UTC, nil
	}
	if len(tz) < 3 || (tz[0] != '+' && tz[0] != '-') {
		return nil, fmt.Errorf("invalid timezone offset %q", tz)
	}

	digits := strings.ReplaceAll(tz[1:], ":", "")
	if len(digits) != 2 && len(digits) != 4 {
		return nil, fmt.Errorf("invalid timezone offset %q", tz)
	}
	hours, err := strconv.Atoi(digits[:2])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone hours in %q: %w", tz, err)
	}
	minutes := 0
	if len(digits) == 4 {
		minutes, err = strconv.Atoi(digits[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid timezone minutes in %q: %w", tz, err)
		}
	}
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("timezone offset %q out of range", tz)
	}

	seconds := hours*3600 + minutes*60
	if tz[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone(tz, seconds), nil
}

// Midnight returns local midnight of date (YYYY-MM-DD) in loc.
func Midnight(date string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date: %w", err)
	}
	return day, nil
}

// Combine joins a date and a wall clock time in loc.
func Combine(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := Midnight(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock = strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		wall, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(),
			wall.Hour(), wall.Minute(), wall.Second(), 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", clock)
}
