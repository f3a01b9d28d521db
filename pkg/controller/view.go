package controller

import (
	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/render"
	"github.com/ccollicutt/commitlens/pkg/scale"
	"github.com/ccollicutt/commitlens/pkg/selection"
)

// View is a sequence of gestures to replay on a freshly rendered dashboard.
// Step wins over Progress when both are set.
type View struct {
	Progress *float64
	Step     *int
	Brush    *selection.Region
	Hover    string
}

// Apply replays v in the order a reader would: scrub, brush, then hover.
func (d *Dashboard) Apply(v View) error {
	switch {
	case v.Step != nil:
		if err := d.Scroller().Enter(*v.Step); err != nil {
			return err
		}
	case v.Progress != nil:
		if _, err := d.Slider(0, scale.ProgressMax).Input(*v.Progress); err != nil {
			return err
		}
	}

	if v.Brush != nil {
		if err := d.Brush(v.Brush); err != nil {
			return err
		}
	}

	if v.Hover != "" {
		c := commits.Find(d.all, v.Hover)
		if c == nil {
			return d.Hover(v.Hover, render.Pointer{})
		}
		x, y := d.plot.Project(c)
		return d.Hover(v.Hover, render.Pointer{X: x, Y: y})
	}
	return nil
}

// Snapshot renders a new dashboard over ds onto an in-memory canvas and
// replays v on it. Each call is independent, so concurrent requests never
// share selection state.
func Snapshot(ds *Dataset, v View, opts ...Option) (*Dashboard, *render.Canvas, error) {
	canvas := render.NewCanvas()
	d, err := New(ds.Commits, canvas, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Render(); err != nil {
		return nil, nil, err
	}
	if err := d.Apply(v); err != nil {
		return nil, nil, err
	}
	return d, canvas, nil
}
