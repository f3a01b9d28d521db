package scale

import (
	"math"
	"time"

	"github.com/ccollicutt/commitlens/pkg/commits"
)

// ProgressMax is the upper end of the progress range.
const ProgressMax = 100.0

// TimeIndex maps commit time onto progress [0,100] and back.
// The zero value is an empty index.
type TimeIndex struct {
	min, max time.Time
	ok       bool
}

// Build indexes the datetime extent of commits.
func Build(cs []*commits.Commit) TimeIndex {
	lo, hi, ok := commits.Extent(cs)
	return TimeIndex{min: lo, max: hi, ok: ok}
}

// NewTimeIndex indexes an explicit extent. lo and hi are swapped if reversed.
func NewTimeIndex(lo, hi time.Time) TimeIndex {
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	return TimeIndex{min: lo, max: hi, ok: true}
}

// IsEmpty reports whether the index was built from no commits.
func (ix TimeIndex) IsEmpty() bool { return !ix.ok }

// Min returns the earliest indexed instant.
func (ix TimeIndex) Min() time.Time { return ix.min }

// Max returns the latest indexed instant.
func (ix TimeIndex) Max() time.Time { return ix.max }

// Forward returns the progress of t, clamped to [0,100].
func (ix TimeIndex) Forward(t time.Time) float64 {
	if !ix.ok || t.Before(ix.min) {
		return 0
	}
	span := ix.max.Sub(ix.min)
	if span == 0 || !t.Before(ix.max) {
		return ProgressMax
	}
	return float64(t.Sub(ix.min)) / float64(span) * ProgressMax
}

// Invert returns the instant at progress p. Out of range input clamps to the
// boundaries and a single-instant index returns that instant for any p.
func (ix TimeIndex) Invert(p float64) time.Time {
	if !ix.ok {
		return time.Time{}
	}
	switch {
	case math.IsNaN(p) || p <= 0:
		return ix.min
	case p >= ProgressMax:
		return ix.max
	}
	span := ix.max.Sub(ix.min)
	if span == 0 {
		return ix.min
	}
	t := ix.min.Add(time.Duration(math.Round(p / ProgressMax * float64(span))))
	if t.After(ix.max) {
		return ix.max
	}
	return t
}
