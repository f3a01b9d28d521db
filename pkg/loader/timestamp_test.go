package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		input   string
		offset  int
		wantErr bool
	}{
		{"Z", 0, false},
		{"UTC", 0, false},
		{"+00:00", 0, false},
		{"-08:00", -8 * 3600, false},
		{"+0530", 5*3600 + 30*60, false},
		{"+09", 9 * 3600, false},
		{"-0345", -(3*3600 + 45*60), false},
		{"", 0, true},
		{"PST", 0, true},
		{"+5", 0, true},
		{"+15:00", 0, true},
		{"+05:60", 0, true},
		{"+ab:cd", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			loc, err := ParseOffset(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestParseDatetime(t *testing.T) {
	want := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)

	tests := []string{
		"2024-01-15T10:30:00-08:00",
		"2024-01-15T10:30:00.000-08:00",
		"2024-01-15T10:30:00-0800",
		"2024-01-15 10:30:00 -0800",
		"2024-01-15 18:30:00Z",
		"Mon Jan 15 10:30:00 2024 -0800",
	}

	for _, input := range tests {
		input := input
		t.Run(input, func(t *testing.T) {
			ts, err := ParseDatetime(input)
			require.NoError(t, err)
			assert.True(t, ts.Equal(want), "got %v", ts)
		})
	}

	_, err := ParseDatetime("15 Jan 2024")
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	zone := time.FixedZone("+02:00", 2*3600)

	ts, err := Combine("2024-06-01", "08:15", zone)
	require.NoError(t, err)
	assert.Equal(t, 8, ts.Hour())
	assert.Equal(t, 15, ts.Minute())
	assert.True(t, ts.Equal(time.Date(2024, 6, 1, 6, 15, 0, 0, time.UTC)))

	ts, err = Combine("2024-06-01", "23:59:59", zone)
	require.NoError(t, err)
	assert.Equal(t, 59, ts.Second())

	_, err = Combine("2024-06-01", "25:00", zone)
	assert.Error(t, err)

	_, err = Combine("June 1", "08:00", zone)
	assert.Error(t, err)
}

func TestMidnight(t *testing.T) {
	zone := time.FixedZone("-05:00", -5*3600)

	day, err := Midnight("2024-02-29", zone)
	require.NoError(t, err)
	assert.Equal(t, 0, day.Hour())
	assert.True(t, day.Equal(time.Date(2024, 2, 29, 5, 0, 0, 0, time.UTC)))
}
