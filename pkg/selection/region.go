// Package selection tracks the time cutoff and brush region and derives
// the commit subsets each view draws.
package selection

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is an axis-aligned rectangle in plot pixel space.
type Region struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewRegion returns the normalised rectangle spanning two corners.
func NewRegion(x0, y0, x1, y1 float64) Region {
	return Region{X0: x0, Y0: y0, X1: x1, Y1: y1}.Normalize()
}

// Normalize orders the corners so X0<=X1 and Y0<=Y1.
func (r Region) Normalize() Region {
	if r.X1 < r.X0 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Empty reports a zero-width or zero-height region, which selects nothing.
func (r Region) Empty() bool {
	return r.X0 == r.X1 || r.Y0 == r.Y1
}

// Contains reports whether (x, y) lies in the closed rectangle.
func (r Region) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

func (r Region) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X0, r.Y0, r.X1, r.Y1)
}

// ParseRegion parses "x0,y0,x1,y1".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("brush %q: want x0,y0,x1,y1", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Region{}, fmt.Errorf("brush %q: %w", s, err)
		}
		v[i] = f
	}
	return NewRegion(v[0], v[1], v[2], v[3]), nil
}
