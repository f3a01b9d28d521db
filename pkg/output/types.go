// Package output provides formatting and output generation for dashboard renders.
package output

import (
	"time"

	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/projects"
	"github.com/ccollicutt/commitlens/pkg/render"
	"github.com/ccollicutt/commitlens/pkg/selection"
)

// Report is one rendered dashboard state.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Metadata provides context about the render.
	Metadata Metadata `json:"metadata"`

	Stats     render.StatsLayer     `json:"stats"`
	Scatter   render.ScatterLayer   `json:"scatter"`
	Tooltip   render.TooltipLayer   `json:"tooltip"`
	Breakdown render.BreakdownLayer `json:"breakdown"`
	Selection render.SelectionLayer `json:"selection"`
	Files     render.FilesLayer     `json:"files"`
	Narrative render.NarrativeLayer `json:"narrative"`

	// Projects is present when a projects source was configured and loaded.
	Projects *ProjectsSection `json:"projects,omitempty"`
}

// Summary provides aggregate counts.
type Summary struct {
	// Commits is the number of commits in the dataset.
	Commits int `json:"commits"`

	// Active is the number of commits at or before the cutoff.
	Active int `json:"active"`

	// Selected is the number of commits inside the brush.
	Selected int `json:"selected"`

	// Lines is the total number of changed lines.
	Lines int `json:"lines"`

	// Files is the number of distinct files.
	Files int `json:"files"`
}

// Metadata provides context about the render.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the log files that were loaded.
	Sources []string `json:"sources"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long loading took.
	Duration time.Duration `json:"duration"`

	// CacheHits counts log files served from the parsed-log cache.
	CacheHits int `json:"cache_hits"`

	Progress float64           `json:"progress"`
	Cutoff   string            `json:"cutoff,omitempty"`
	Brush    *selection.Region `json:"brush,omitempty"`
}

// ProjectsSection is the projects-by-year pie and the filtered list.
type ProjectsSection struct {
	Heading  string             `json:"heading"`
	Query    string             `json:"query,omitempty"`
	Selected int                `json:"selected"`
	Slices   []projects.Slice   `json:"slices"`
	Projects []projects.Project `json:"projects"`
}

// NewMetadata describes dashboard d drawn over dataset ds.
func NewMetadata(ds *controller.Dataset, d *controller.Dashboard, configFile string) Metadata {
	return Metadata{
		ConfigFile: configFile,
		Sources:    ds.Sources,
		Duration:   ds.Duration,
		CacheHits:  ds.CacheHits,
		Progress:   d.State().Progress(),
		Cutoff:     d.FormatCutoff(),
		Brush:      d.State().Brush(),
	}
}

// NewReport reads every region drawn on canvas into a report.
func NewReport(canvas *render.Canvas, meta Metadata) *Report {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}
	if meta.Sources == nil {
		meta.Sources = []string{}
	}

	r := &Report{
		Metadata:  meta,
		Stats:     canvas.Stats(),
		Scatter:   canvas.Scatter(),
		Tooltip:   canvas.Tooltip(),
		Breakdown: canvas.Breakdown(),
		Selection: canvas.Selection(),
		Files:     canvas.Files(),
		Narrative: canvas.Narrative(),
	}
	r.Summary = Summary{
		Commits:  r.Stats.Commits,
		Active:   len(r.Scatter.Points),
		Selected: r.Selection.Count,
		Lines:    r.Stats.TotalLOC,
		Files:    r.Stats.Files,
	}
	return r
}

// WithProjects attaches the browser's current view.
func (r *Report) WithProjects(b *projects.Browser) *Report {
	if b == nil {
		return r
	}
	r.Projects = &ProjectsSection{
		Heading:  b.Heading(),
		Query:    b.Query(),
		Selected: b.Selected(),
		Slices:   b.Slices(),
		Projects: b.Visible(),
	}
	return r
}

// HasCommits returns true if the dataset was not empty.
func (r *Report) HasCommits() bool {
	return r.Summary.Commits > 0
}
