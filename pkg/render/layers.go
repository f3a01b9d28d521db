package render

import "time"

// Point is one commit in the scatter plot.
type Point struct {
	ID       string    `json:"id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	R        float64   `json:"r"`
	Opacity  float64   `json:"opacity"`
	Selected bool      `json:"selected"`
	Lines    int       `json:"lines"`
	Datetime time.Time `json:"datetime"`
	HourFrac float64   `json:"hour_frac"`
}

// Tick is an axis label at a pixel position.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// ScatterLayer is the commits-by-time-of-day plot.
type ScatterLayer struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Area      Area      `json:"area"`
	XTicks    []Tick    `json:"x_ticks"`
	YTicks    []Tick    `json:"y_ticks"`
	Gridlines []float64 `json:"gridlines"`
	Points    []Point   `json:"points"`
}

// Region implements Layer.
func (ScatterLayer) Region() RegionName { return RegionScatter }

// TooltipLayer describes the hover card. Fields are empty when hidden.
type TooltipLayer struct {
	Visible bool    `json:"visible"`
	ID      string  `json:"id,omitempty"`
	URL     string  `json:"url,omitempty"`
	Date    string  `json:"date,omitempty"`
	Time    string  `json:"time,omitempty"`
	Author  string  `json:"author,omitempty"`
	Lines   int     `json:"lines,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
}

// Region implements Layer.
func (TooltipLayer) Region() RegionName { return RegionTooltip }

// StatsLayer holds summary statistics over the full dataset.
type StatsLayer struct {
	TotalLOC    int       `json:"total_loc"`
	Commits     int       `json:"commits"`
	Files       int       `json:"files"`
	LongestLine int       `json:"longest_line"`
	MaxDepth    int       `json:"max_depth"`
	FirstCommit time.Time `json:"first_commit,omitempty"`
}

// Region implements Layer.
func (StatsLayer) Region() RegionName { return RegionStats }

// BreakdownEntry is one language tag in the breakdown.
type BreakdownEntry struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// BreakdownLayer lists line counts per type in first-seen order.
// An empty Entries clears the region.
type BreakdownLayer struct {
	Total   int              `json:"total"`
	Entries []BreakdownEntry `json:"entries"`
}

// Region implements Layer.
func (BreakdownLayer) Region() RegionName { return RegionBreakdown }

// SelectionLayer is the brushed commit count.
type SelectionLayer struct {
	Count int    `json:"count"`
	Text  string `json:"text"`
}

// Region implements Layer.
func (SelectionLayer) Region() RegionName { return RegionSelection }

// Unit is one line of a file, coloured by its type.
type Unit struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// FileGroup is one file with a unit per changed line.
type FileGroup struct {
	Name  string `json:"name"`
	Lines int    `json:"lines"`
	Units []Unit `json:"units"`
}

// FilesLayer is the per-file composition display.
type FilesLayer struct {
	Files []FileGroup `json:"files"`
}

// Region implements Layer.
func (FilesLayer) Region() RegionName { return RegionFiles }

// Step is one narrative paragraph.
type Step struct {
	Index    int       `json:"index"`
	ID       string    `json:"id"`
	URL      string    `json:"url,omitempty"`
	Datetime time.Time `json:"datetime"`
	Lines    int       `json:"lines"`
	Files    int       `json:"files"`
	Text     string    `json:"text"`
}

// NarrativeLayer is the scrollytelling text, one step per commit.
type NarrativeLayer struct {
	Steps []Step `json:"steps"`
}

// Region implements Layer.
func (NarrativeLayer) Region() RegionName { return RegionNarrative }
