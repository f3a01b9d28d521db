package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/loader"
	"github.com/ccollicutt/commitlens/pkg/projects"
	"github.com/ccollicutt/commitlens/pkg/render"
	"github.com/ccollicutt/commitlens/pkg/selection"
)

const sampleLog = `commit,author,date,time,timezone,datetime,file,type,line,depth,length
a1,Ada,2024-01-10,09:00,+00:00,2024-01-10T09:00:00Z,index.html,html,1,0,20
a1,Ada,2024-01-10,09:00,+00:00,2024-01-10T09:00:00Z,index.html,html,2,1,30
b2,Bob,2024-01-12,13:30,+00:00,2024-01-12T13:30:00Z,style.css,css,1,0,15
c3,Ada,2024-01-20,22:15,+00:00,2024-01-20T22:15:00Z,main.js,js,1,0,40
c3,Ada,2024-01-20,22:15,+00:00,2024-01-20T22:15:00Z,main.js,js,2,2,41
c3,Ada,2024-01-20,22:15,+00:00,2024-01-20T22:15:00Z,index.html,html,3,1,10
`

func sampleReport(t *testing.T, log string) *Report {
	t.Helper()
	records, err := loader.Load(context.Background(), strings.NewReader(log))
	require.NoError(t, err)

	canvas := render.NewCanvas()
	d, err := controller.New(commits.Aggregate(records), canvas)
	require.NoError(t, err)
	require.NoError(t, d.Render())

	return NewReport(canvas, Metadata{
		ConfigFile: "commitlens.yaml",
		Sources:    []string{"loc.csv"},
		Duration:   25 * time.Millisecond,
		Progress:   d.State().Progress(),
		Cutoff:     d.FormatCutoff(),
	})
}

func TestNewReport(t *testing.T) {
	report := sampleReport(t, sampleLog)

	assert.True(t, report.HasCommits())
	assert.Equal(t, Summary{Commits: 3, Active: 3, Selected: 0, Lines: 6, Files: 3}, report.Summary)
	assert.False(t, report.Metadata.GeneratedAt.IsZero())
	assert.Equal(t, "January 20, 2024 at 10:15 PM", report.Metadata.Cutoff)
	assert.Len(t, report.Narrative.Steps, 3)
	assert.Nil(t, report.Projects)
}

func TestNewReport_Empty(t *testing.T) {
	report := NewReport(render.NewCanvas(), Metadata{})

	assert.False(t, report.HasCommits())
	assert.NotNil(t, report.Metadata.Sources)
	assert.Empty(t, report.Scatter.Points)
}

func TestReport_WithProjects(t *testing.T) {
	report := sampleReport(t, sampleLog)
	b := projects.NewBrowser([]projects.Project{
		{Title: "Atlas", Year: "2023"},
		{Title: "Beacon", Year: "2024"},
		{Title: "Compass", Year: "2023"},
	})
	require.True(t, b.SelectYear("2023"))

	report.WithProjects(b)
	require.NotNil(t, report.Projects)
	assert.Equal(t, "2 Projects", report.Projects.Heading)
	assert.Equal(t, 0, report.Projects.Selected)
	assert.Len(t, report.Projects.Slices, 2)

	assert.Same(t, report, report.WithProjects(nil))
}

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	assert.Equal(t, "json", f.Name())

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), sampleReport(t, sampleLog), &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"summary", "metadata", "stats", "scatter", "breakdown", "selection", "files", "narrative"} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "projects")

	breakdown := decoded["breakdown"].(map[string]any)
	entries := breakdown["entries"].([]any)
	require.Len(t, entries, 3)
	assert.Equal(t, "html", entries[0].(map[string]any)["type"])
	assert.Equal(t, "50%", entries[0].(map[string]any)["label"])
}

func TestJSONFormatter_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), sampleReport(t, sampleLog), &buf))

	var summary Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, 3, summary.Commits)
	assert.Equal(t, 6, summary.Lines)
	assert.NotContains(t, buf.String(), "narrative")
}

func TestTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	assert.Equal(t, "text", f.Name())

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), sampleReport(t, sampleLog), &buf))

	out := buf.String()
	assert.Contains(t, out, "commitlens Dashboard")
	assert.Contains(t, out, "Language breakdown")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "16.7%")
	assert.Contains(t, out, "No commits selected")
	assert.Contains(t, out, "Cutoff: January 20, 2024 at 10:15 PM (100%)")
	assert.Contains(t, out, "Summary: 3 commits, 3 active, 0 selected")
	assert.NotContains(t, out, "Narrative")
	assert.NotContains(t, out, "Sources:")
}

func TestTextFormatter_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), sampleReport(t, sampleLog), &buf))

	out := buf.String()
	assert.Contains(t, out, "Narrative")
	assert.Contains(t, out, "1. On Wednesday, January 10, 2024 at 9:00 AM, I made my first commit")
	assert.Contains(t, out, "main.js")
	assert.Contains(t, out, "js:2")
	assert.Contains(t, out, "Sources: loc.csv")
	assert.Contains(t, out, "Duration: 25ms")
}

func TestTextFormatter_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), sampleReport(t, sampleLog), &buf))

	assert.Equal(t, "commitlens: 3 commits, 6 lines, 3 files (3 active, 0 selected)\n", buf.String())
}

func TestTextFormatter_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), NewReport(render.NewCanvas(), Metadata{}), &buf))

	out := buf.String()
	assert.Contains(t, out, "No commits in dataset")
	assert.NotContains(t, out, "Language breakdown")
}

func TestTextFormatter_Projects(t *testing.T) {
	report := sampleReport(t, sampleLog).WithProjects(projects.NewBrowser([]projects.Project{
		{Title: "Atlas", Year: "2023", Description: "Maps"},
	}))
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), report, &buf))

	out := buf.String()
	assert.Contains(t, out, "1 Projects")
	assert.Contains(t, out, "Atlas (2023)")
	assert.Contains(t, out, "Maps")
}

func TestTypeCounts(t *testing.T) {
	units := []render.Unit{{Type: "css"}, {Type: "go"}, {Type: "go"}, {Type: "md"}}
	assert.Equal(t, "go:2 css:1 md:1", typeCounts(units))
	assert.Equal(t, "", typeCounts(nil))
}

func TestHTMLFormatter(t *testing.T) {
	f := NewHTMLFormatter(FormatOptions{})
	assert.Equal(t, "html", f.Name())

	report := sampleReport(t, sampleLog).WithProjects(projects.NewBrowser([]projects.Project{
		{Title: "Atlas", Year: "2023"},
	}))

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), report, &buf))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "commitlens")
	assert.Contains(t, out, "Commits by time of day")
	assert.Contains(t, out, "Language breakdown")
	assert.Contains(t, out, "main.js")
	assert.Contains(t, out, "1 Projects")
}

func TestHTMLFormatter_QuietSkipsFiles(t *testing.T) {
	f := NewHTMLFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), sampleReport(t, sampleLog), &buf))

	assert.NotContains(t, buf.String(), "Changed lines per file by type")
}

func TestHTMLFormatter_Brushed(t *testing.T) {
	records, err := loader.Load(context.Background(), strings.NewReader(sampleLog))
	require.NoError(t, err)
	canvas := render.NewCanvas()
	d, err := controller.New(commits.Aggregate(records), canvas)
	require.NoError(t, err)
	require.NoError(t, d.Render())
	require.NoError(t, d.Brush(&selection.Region{X0: 0, Y0: 0, X1: 1000, Y1: 600}))

	report := NewReport(canvas, Metadata{Cutoff: d.FormatCutoff()})
	assert.Equal(t, 3, report.Summary.Selected)

	var buf bytes.Buffer
	require.NoError(t, NewHTMLFormatter(FormatOptions{}).Format(context.Background(), report, &buf))
	assert.Contains(t, buf.String(), "Selected")
	assert.Contains(t, buf.String(), "3 commits selected")
}

func TestNewMetadata(t *testing.T) {
	records, err := loader.Load(context.Background(), strings.NewReader(sampleLog))
	require.NoError(t, err)
	ds := &controller.Dataset{
		Records:   records,
		Commits:   commits.Aggregate(records),
		Sources:   []string{"loc.csv"},
		CacheHits: 1,
	}
	brush := selection.Region{X0: 0, Y0: 0, X1: 10, Y1: 10}
	d, _, err := controller.Snapshot(ds, controller.View{Brush: &brush})
	require.NoError(t, err)

	meta := NewMetadata(ds, d, "commitlens.yaml")
	assert.Equal(t, "commitlens.yaml", meta.ConfigFile)
	assert.Equal(t, []string{"loc.csv"}, meta.Sources)
	assert.Equal(t, 1, meta.CacheHits)
	assert.Equal(t, 100.0, meta.Progress)
	require.NotNil(t, meta.Brush)
	assert.Equal(t, brush, *meta.Brush)
}
