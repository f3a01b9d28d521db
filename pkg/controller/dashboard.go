package controller

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/render"
	"github.com/ccollicutt/commitlens/pkg/scale"
	"github.com/ccollicutt/commitlens/pkg/selection"
)

// CutoffLayout formats the slider's time display.
const CutoffLayout = "January 2, 2006 at 3:04 PM"

var (
	// ErrUnknownCommit is returned when a gesture names a commit that is
	// not in the dataset.
	ErrUnknownCommit = errors.New("unknown commit")

	// ErrUnknownStep is returned for a narrative step outside the dataset.
	ErrUnknownStep = errors.New("unknown narrative step")
)

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithGeometry sizes the scatter plot.
func WithGeometry(g render.Geometry) Option {
	return func(d *Dashboard) {
		d.geometry = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

// Dashboard is the context every handler works through: the commits, the
// plot scales built from them, the selection, the colour palette and the
// board being drawn on. It is single-threaded; each call recomputes and
// redraws synchronously.
type Dashboard struct {
	all      []*commits.Commit
	geometry render.Geometry
	plot     *render.Plot
	state    *selection.State
	palette  *scale.Ordinal
	board    *render.Board
	hovered  string
	pointer  render.Pointer
	logger   *zap.Logger
}

// New binds the dashboard to surface. Every region must exist.
func New(all []*commits.Commit, surface render.Surface, opts ...Option) (*Dashboard, error) {
	d := &Dashboard{
		all:      all,
		geometry: render.DefaultGeometry(),
		palette:  scale.NewOrdinal(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	board, err := render.Bind(surface)
	if err != nil {
		return nil, err
	}
	d.board = board
	d.plot = render.NewPlot(all, d.geometry)
	d.state = selection.New(all, d.plot)
	return d, nil
}

// State exposes the selection for reading.
func (d *Dashboard) State() *selection.State { return d.state }

// Plot returns the scatter plot scales.
func (d *Dashboard) Plot() *render.Plot { return d.plot }

// Commits returns every commit in datetime order.
func (d *Dashboard) Commits() []*commits.Commit { return d.all }

// Render draws every region.
func (d *Dashboard) Render() error {
	return d.board.Draw(
		render.Stats(d.all),
		d.scatter(),
		d.tooltip(),
		render.Breakdown(d.state.BreakdownCommits()),
		render.SelectionCount(len(d.state.BrushedCommits())),
		render.Files(d.state.ActiveCommits(), d.palette),
		render.Narrative(d.all),
	)
}

// Slider returns the range control mapping [min,max] onto progress.
func (d *Dashboard) Slider(lo, hi float64) *Slider {
	return &Slider{
		d:     d,
		scale: scale.NewLinear(lo, hi, 0, scale.ProgressMax).Clamp(true),
	}
}

// Scroller returns the narrative step observer.
func (d *Dashboard) Scroller() *Scroller {
	return &Scroller{d: d}
}

// Brush replaces the brush region, nil to clear, and redraws the scatter
// plot, the language breakdown and the selection count.
func (d *Dashboard) Brush(r *selection.Region) error {
	d.state.SetBrush(r)
	return d.board.Draw(
		d.scatter(),
		render.Breakdown(d.state.BreakdownCommits()),
		render.SelectionCount(len(d.state.BrushedCommits())),
	)
}

// Hover shows the tooltip for commitID at the pointer.
func (d *Dashboard) Hover(commitID string, at render.Pointer) error {
	c := commits.Find(d.all, commitID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommit, commitID)
	}
	d.hovered = commitID
	d.pointer = at
	return d.board.Draw(d.scatter(), render.Tooltip(c, at))
}

// Leave hides the tooltip when the pointer leaves commitID. Leaving a commit
// that is not hovered is a no-op.
func (d *Dashboard) Leave(commitID string) error {
	if d.hovered != commitID {
		return nil
	}
	d.hovered = ""
	return d.board.Draw(d.scatter(), render.HiddenTooltip())
}

func (d *Dashboard) scatter() render.ScatterLayer {
	return render.Scatter(d.plot, render.ScatterView{
		Active:   d.state.ActiveCommits(),
		Selected: d.state.IsSelected,
		Hovered:  d.hovered,
	})
}

func (d *Dashboard) tooltip() render.TooltipLayer {
	if d.hovered == "" {
		return render.HiddenTooltip()
	}
	return render.Tooltip(commits.Find(d.all, d.hovered), d.pointer)
}

func (d *Dashboard) redrawTimeline() error {
	d.logger.Debug("cutoff changed",
		zap.Float64("progress", d.state.Progress()),
		zap.Time("cutoff", d.state.Cutoff()),
		zap.Int("active", len(d.state.ActiveCommits())))
	return d.board.Draw(d.scatter(), render.Files(d.state.ActiveCommits(), d.palette))
}

// FormatCutoff renders the slider's time display. An empty dataset has none.
func (d *Dashboard) FormatCutoff() string {
	if d.state.Index().IsEmpty() {
		return ""
	}
	return d.state.Cutoff().Format(CutoffLayout)
}

// Slider maps a range input onto progress.
type Slider struct {
	d     *Dashboard
	scale *scale.Linear
}

// Input moves the cutoff and redraws the scatter plot and file composition.
// It returns the cutoff time display.
func (s *Slider) Input(value float64) (string, error) {
	s.d.state.SetProgress(s.scale.Map(value))
	if err := s.d.redrawTimeline(); err != nil {
		return "", err
	}
	return s.d.FormatCutoff(), nil
}

// Scroller follows narrative steps as they scroll into view.
type Scroller struct {
	d *Dashboard
}

// Enter moves the cutoff to the datetime of the commit at step and redraws
// the scatter plot and file composition.
func (s *Scroller) Enter(step int) error {
	if step < 0 || step >= len(s.d.all) {
		return fmt.Errorf("%w: %d of %d", ErrUnknownStep, step, len(s.d.all))
	}
	s.d.state.SetCutoff(s.d.all[step].Datetime)
	return s.d.redrawTimeline()
}
