package selection

import (
	"math"
	"time"

	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/scale"
)

// Projector places a commit in plot pixel space.
type Projector interface {
	Project(c *commits.Commit) (x, y float64)
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(c *commits.Commit) (x, y float64)

// Project calls f(c).
func (f ProjectorFunc) Project(c *commits.Commit) (float64, float64) { return f(c) }

// State holds the user's current selection over an immutable commit list.
// Every setter recomputes the derived subsets before returning.
// A State is not safe for concurrent use.
type State struct {
	all       []*commits.Commit
	index     scale.TimeIndex
	projector Projector

	progress float64
	cutoff   time.Time
	hideAll  bool
	brush    *Region

	active  []*commits.Commit
	brushed []*commits.Commit
}

// New creates a state showing every commit with no brush.
func New(all []*commits.Commit, projector Projector) *State {
	s := &State{
		all:       all,
		index:     scale.Build(all),
		projector: projector,
	}
	s.SetProgress(scale.ProgressMax)
	s.recomputeBrushed()
	return s
}

// Index returns the time index over all commits.
func (s *State) Index() scale.TimeIndex { return s.index }

// All returns every commit in datetime order.
func (s *State) All() []*commits.Commit { return s.all }

// SetProgress moves the cutoff to the instant at progress p, clamped to
// [0,100]. Progress 0 shows no commits.
func (s *State) SetProgress(p float64) {
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > scale.ProgressMax {
		p = scale.ProgressMax
	}
	s.progress = p
	s.cutoff = s.index.Invert(p)
	s.hideAll = p == 0
	s.recomputeActive()
}

// SetCutoff moves the cutoff to an exact instant, as when a narrative step
// scrolls into view.
func (s *State) SetCutoff(t time.Time) {
	s.cutoff = t
	s.progress = s.index.Forward(t)
	s.hideAll = false
	s.recomputeActive()
}

// SetBrush replaces the brush. nil clears it.
func (s *State) SetBrush(r *Region) {
	if r == nil {
		s.brush = nil
	} else {
		n := r.Normalize()
		s.brush = &n
	}
	s.recomputeBrushed()
}

// Progress returns the current progress in [0,100].
func (s *State) Progress() float64 { return s.progress }

// Cutoff returns the latest instant shown.
func (s *State) Cutoff() time.Time { return s.cutoff }

// Brush returns a copy of the brush region, or nil.
func (s *State) Brush() *Region {
	if s.brush == nil {
		return nil
	}
	r := *s.brush
	return &r
}

// ActiveCommits returns commits with datetime <= cutoff.
func (s *State) ActiveCommits() []*commits.Commit { return s.active }

// BrushedCommits returns every commit inside the brush regardless of the
// time cutoff.
func (s *State) BrushedCommits() []*commits.Commit { return s.brushed }

// BreakdownCommits returns the commits the language breakdown summarises:
// the brushed ones while a brush is set, otherwise all of them.
func (s *State) BreakdownCommits() []*commits.Commit {
	if s.brush == nil {
		return s.all
	}
	return s.brushed
}

// IsSelected reports whether c's plotted position lies inside the brush.
func (s *State) IsSelected(c *commits.Commit) bool {
	if s.brush == nil || s.projector == nil {
		return false
	}
	x, y := s.projector.Project(c)
	return s.brush.Contains(x, y)
}

func (s *State) recomputeActive() {
	s.active = make([]*commits.Commit, 0, len(s.all))
	if s.hideAll || s.index.IsEmpty() {
		return
	}
	for _, c := range s.all {
		if !c.Datetime.After(s.cutoff) {
			s.active = append(s.active, c)
		}
	}
}

func (s *State) recomputeBrushed() {
	s.brushed = make([]*commits.Commit, 0)
	if s.brush == nil {
		return
	}
	for _, c := range s.all {
		if s.IsSelected(c) {
			s.brushed = append(s.brushed, c)
		}
	}
}
