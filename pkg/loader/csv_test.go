package loader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "file,line,type,commit,author,date,time,timezone,datetime,depth,length\n"

func TestLoad_ParsesRows(t *testing.T) {
	input := header +
		"index.html,1,html,a1,Ada,2024-01-15,10:30:00,-08:00,2024-01-15T10:30:00-08:00,0,15\n" +
		"style.css,4,css,b2,Bob,2024-01-16,09:05:00,+01:00,2024-01-16T09:05:00+01:00,1,22\n"

	records, err := Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "a1", first.Commit)
	assert.Equal(t, "index.html", first.File)
	assert.Equal(t, "html", first.Type)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 0, first.Depth)
	assert.Equal(t, 15, first.Length)
	assert.Equal(t, "Ada", first.Author)
	assert.Equal(t, 1, first.Row)

	want := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)
	assert.True(t, first.Datetime.Equal(want), "datetime = %v", first.Datetime)
	assert.Equal(t, 10, first.Datetime.Hour())

	midnight := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	assert.True(t, first.Day.Equal(midnight), "day = %v", first.Day)
}

func TestLoad_DerivesDatetimeWithoutColumn(t *testing.T) {
	input := "commit,author,date,time,timezone,file,type,line,depth,length\n" +
		"a1,Ada,2024-03-02,23:45,+0530,main.go,go,3,2,40\n"

	records, err := Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	want := time.Date(2024, 3, 2, 18, 15, 0, 0, time.UTC)
	assert.True(t, records[0].Datetime.Equal(want), "datetime = %v", records[0].Datetime)
	assert.Equal(t, 23, records[0].Datetime.Hour())
}

func TestLoad_PrefersDatetimeColumn(t *testing.T) {
	input := header +
		"a.js,1,js,a1,Ada,2024-01-15,01:00:00,+00:00,2024-01-15T12:00:00Z,0,1\n"

	records, err := Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 12, records[0].Datetime.Hour())
}

func TestLoad_IgnoresUnknownColumns(t *testing.T) {
	input := "extra,commit,author,date,time,timezone,datetime,file,type,line,depth,length,more\n" +
		"x,a1,Ada,2024-01-15,10:00,Z,,a.js,js,1,0,1,y\n"

	records, err := Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].Commit)
}

func TestLoad_AcceptsIntegralFloats(t *testing.T) {
	input := header + "a.js,2.0,js,a1,Ada,2024-01-15,10:00,Z,,1.0,10\n"

	records, err := Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, 1, records[0].Depth)
}

func TestLoad_HeaderOnly(t *testing.T) {
	records, err := Load(context.Background(), strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_EmptyInput(t *testing.T) {
	records, err := Load(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_MalformedRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
		row   int
	}{
		{
			name:  "missing commit",
			input: header + "a.js,1,js,,Ada,2024-01-15,10:00,Z,,0,1\n",
			field: ColumnCommit,
			row:   1,
		},
		{
			name:  "line not a number",
			input: header + "a.js,one,js,a1,Ada,2024-01-15,10:00,Z,,0,1\n",
			field: ColumnLine,
			row:   1,
		},
		{
			name:  "line zero",
			input: header + "a.js,0,js,a1,Ada,2024-01-15,10:00,Z,,0,1\n",
			field: ColumnLine,
			row:   1,
		},
		{
			name:  "negative depth",
			input: header + "a.js,1,js,a1,Ada,2024-01-15,10:00,Z,,-1,1\n",
			field: ColumnDepth,
			row:   1,
		},
		{
			name:  "fractional length",
			input: header + "a.js,1,js,a1,Ada,2024-01-15,10:00,Z,,0,1.5\n",
			field: ColumnLength,
			row:   1,
		},
		{
			name:  "bad timezone",
			input: header + "a.js,1,js,a1,Ada,2024-01-15,10:00,PST,,0,1\n",
			field: ColumnTimezone,
			row:   1,
		},
		{
			name:  "bad date",
			input: header + "a.js,1,js,a1,Ada,15/01/2024,10:00,Z,,0,1\n",
			field: ColumnDate,
			row:   1,
		},
		{
			name:  "bad datetime",
			input: header + "a.js,1,js,a1,Ada,2024-01-15,10:00,Z,yesterday,0,1\n",
			field: ColumnDatetime,
			row:   1,
		},
		{
			name:  "no datetime and no time",
			input: header + "a.js,1,js,a1,Ada,2024-01-15,,Z,,0,1\n",
			field: ColumnTime,
			row:   1,
		},
		{
			name: "second row fails",
			input: header +
				"a.js,1,js,a1,Ada,2024-01-15,10:00,Z,,0,1\n" +
				"a.js,2,,a1,Ada,2024-01-15,10:00,Z,,0,1\n",
			field: ColumnType,
			row:   2,
		},
		{
			name:  "missing header column",
			input: "commit,author,date,time,timezone,file,type,line,depth\n",
			field: ColumnLength,
			row:   0,
		},
		{
			name:  "no time source columns",
			input: "commit,author,date,timezone,file,type,line,depth,length\n",
			field: ColumnDatetime + "|" + ColumnTime,
			row:   0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			records, err := Load(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, records, "no partial records on failure")
			assert.True(t, errors.Is(err, ErrMalformedRecord))

			var mre *MalformedRecordError
			require.True(t, errors.As(err, &mre))
			assert.Equal(t, tt.field, mre.Field)
			assert.Equal(t, tt.row, mre.Row)
		})
	}
}

func TestLoad_WithLocation(t *testing.T) {
	input := header + "a.js,1,js,a1,Ada,2024-01-15,10:00,Z,2024-01-15T10:00:00Z,0,1\n"
	tokyo := time.FixedZone("JST", 9*3600)

	records, err := Load(context.Background(), strings.NewReader(input), WithLocation(tokyo))
	require.NoError(t, err)
	assert.Equal(t, 19, records[0].Datetime.Hour())
}

func TestCSVSource_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(a, []byte(header+"a.js,1,js,a1,Ada,2024-01-15,10:00,Z,,0,1\n"), 0o644))
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.NoError(t, os.WriteFile(b, []byte(header+
		"b.js,1,js,b2,Bob,2024-01-16,10:00,Z,,0,1\n"+
		"b.js,2,js,b2,Bob,2024-01-16,10:00,Z,,0,1\n"), 0o644))

	records, err := LoadFiles(context.Background(), []string{a, empty, b})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, a, records[0].Source)
	assert.Equal(t, b, records[2].Source)
	assert.Equal(t, 2, records[2].Row)
}

func TestCSVSource_FileNotFound(t *testing.T) {
	_, err := LoadFiles(context.Background(), []string{"/nonexistent/loc.csv"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedRecord))
}

func TestCSVSource_ContextCancellation(t *testing.T) {
	src := NewReaderSource("input", strings.NewReader(header))
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVSource_EOF(t *testing.T) {
	src := NewReaderSource("input", strings.NewReader(header))
	defer src.Close()

	_, err := src.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}
