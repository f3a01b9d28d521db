// Package commits groups line records into per-commit summaries.
package commits

import (
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/commitlens/pkg/loader"
)

// Commit summarises every line record sharing one commit id.
// Metadata comes from the first record of the group in source order.
type Commit struct {
	ID       string    `json:"id"`
	URL      string    `json:"url,omitempty"`
	Author   string    `json:"author"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Timezone string    `json:"timezone"`
	Datetime time.Time `json:"datetime"`

	// HourFrac is hour + minute/60 of Datetime, in [0,24).
	HourFrac float64 `json:"hour_frac"`

	// TotalLines always equals len(Lines()).
	TotalLines int `json:"total_lines"`

	lines []loader.LineRecord
}

// Lines returns a copy of the commit's records in source order.
func (c *Commit) Lines() []loader.LineRecord {
	out := make([]loader.LineRecord, len(c.lines))
	copy(out, c.lines)
	return out
}

// FileCount returns the number of distinct files the commit touched.
func (c *Commit) FileCount() int {
	return FileCount(c.lines)
}

// Option configures aggregation.
type Option func(*options)

type options struct {
	repoURL string
}

// WithRepoURL links each commit to <url>/commit/<id>.
func WithRepoURL(url string) Option {
	return func(o *options) {
		o.repoURL = strings.TrimRight(url, "/")
	}
}

// Aggregate groups records by exact commit id and returns the commits sorted
// ascending by datetime. Ties keep first-occurrence order.
func Aggregate(records []loader.LineRecord, opts ...Option) []*Commit {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	index := make(map[string]*Commit)
	out := make([]*Commit, 0)
	for _, rec := range records {
		c, ok := index[rec.Commit]
		if !ok {
			c = &Commit{
				ID:       rec.Commit,
				Author:   rec.Author,
				Date:     rec.Date,
				Time:     rec.Time,
				Timezone: rec.Timezone,
				Datetime: rec.Datetime,
				HourFrac: HourFrac(rec.Datetime),
			}
			if o.repoURL != "" {
				c.URL = o.repoURL + "/commit/" + rec.Commit
			}
			index[rec.Commit] = c
			out = append(out, c)
		}
		c.lines = append(c.lines, rec)
	}

	for _, c := range out {
		c.TotalLines = len(c.lines)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Datetime.Before(out[j].Datetime)
	})
	return out
}

// HourFrac returns the fractional hour of day of t in its own location.
func HourFrac(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
