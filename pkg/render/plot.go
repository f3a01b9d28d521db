package render

import (
	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/scale"
)

// Margin is the space around the plotting area.
type Margin struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

// Geometry sizes the scatter plot.
type Geometry struct {
	Width     float64
	Height    float64
	Margin    Margin
	RadiusMin float64
	RadiusMax float64
}

// DefaultGeometry is a 1000x600 plot with radii from 3 to 20.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:     1000,
		Height:    600,
		Margin:    Margin{Top: 10, Right: 10, Bottom: 30, Left: 20},
		RadiusMin: 3,
		RadiusMax: 20,
	}
}

// Area is the usable plotting rectangle inside the margins.
type Area struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Area returns the rectangle inside the margins.
func (g Geometry) Area() Area {
	return Area{
		Left:   g.Margin.Left,
		Top:    g.Margin.Top,
		Right:  g.Width - g.Margin.Right,
		Bottom: g.Height - g.Margin.Bottom,
	}
}

// Plot holds the scales of the scatter plot. They are built once from the
// full dataset so positions stay fixed while the selection changes.
type Plot struct {
	Geometry Geometry
	X        *scale.Time
	Y        *scale.Linear
	R        *scale.Sqrt

	empty bool
}

// NewPlot builds the scales for all commits.
func NewPlot(all []*commits.Commit, g Geometry) *Plot {
	area := g.Area()
	lo, hi, ok := commits.Extent(all)
	minLines, maxLines, _ := commits.LineExtent(all)
	return &Plot{
		Geometry: g,
		X:        scale.NewTime(lo, hi, area.Left, area.Right).Nice(),
		Y:        scale.NewLinear(0, 24, area.Bottom, area.Top),
		R:        scale.NewSqrt(float64(minLines), float64(maxLines), g.RadiusMin, g.RadiusMax),
		empty:    !ok,
	}
}

// Project returns the pixel position of c. Plot implements selection.Projector.
func (p *Plot) Project(c *commits.Commit) (float64, float64) {
	return p.X.Map(c.Datetime), p.Y.Map(c.HourFrac)
}

// Radius returns the point radius for c.
func (p *Plot) Radius(c *commits.Commit) float64 {
	return p.R.Map(float64(c.TotalLines))
}
