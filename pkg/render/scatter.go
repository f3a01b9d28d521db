package render

import (
	"fmt"
	"sort"

	"github.com/ccollicutt/commitlens/pkg/commits"
)

// Point opacity at rest and under the pointer.
const (
	OpacityRest  = 0.7
	OpacityHover = 1.0
)

// ScatterView is the per-draw input of the scatter plot.
type ScatterView struct {
	// Active are the commits inside the time cutoff.
	Active []*commits.Commit
	// Selected reports brush membership. nil selects nothing.
	Selected func(*commits.Commit) bool
	// Hovered is the id of the commit under the pointer, if any.
	Hovered string
}

// Scatter plots the active commits. Larger commits are drawn first so the
// smaller ones stay on top and reachable by the pointer.
func Scatter(p *Plot, view ScatterView) ScatterLayer {
	layer := ScatterLayer{
		Width:  p.Geometry.Width,
		Height: p.Geometry.Height,
		Area:   p.Geometry.Area(),
		XTicks: timeTicks(p),
		YTicks: hourTicks(p),
		Points: make([]Point, 0, len(view.Active)),
	}
	for _, t := range layer.YTicks {
		layer.Gridlines = append(layer.Gridlines, t.Pos)
	}

	sorted := make([]*commits.Commit, len(view.Active))
	copy(sorted, view.Active)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalLines > sorted[j].TotalLines
	})

	for _, c := range sorted {
		x, y := p.Project(c)
		pt := Point{
			ID:       c.ID,
			X:        x,
			Y:        y,
			R:        p.Radius(c),
			Opacity:  OpacityRest,
			Lines:    c.TotalLines,
			Datetime: c.Datetime,
			HourFrac: c.HourFrac,
		}
		if view.Selected != nil {
			pt.Selected = view.Selected(c)
		}
		if c.ID == view.Hovered {
			pt.Opacity = OpacityHover
		}
		layer.Points = append(layer.Points, pt)
	}
	return layer
}

func timeTicks(p *Plot) []Tick {
	if p.empty {
		return nil
	}
	format := p.X.TickFormat(10)
	var ticks []Tick
	for _, t := range p.X.Ticks(10) {
		ticks = append(ticks, Tick{Pos: p.X.Map(t), Label: t.Format(format)})
	}
	return ticks
}

func hourTicks(p *Plot) []Tick {
	var ticks []Tick
	for _, h := range p.Y.Ticks(12) {
		ticks = append(ticks, Tick{Pos: p.Y.Map(h), Label: fmt.Sprintf("%02d:00", int(h)%24)})
	}
	return ticks
}
