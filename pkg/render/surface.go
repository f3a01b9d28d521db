// Package render turns commits and selection state into drawable layers and
// writes them to named regions of a Surface.
package render

import (
	"errors"
	"fmt"
)

// ErrMissingContainer is returned when a region a renderer needs is absent.
var ErrMissingContainer = errors.New("missing render container")

// RegionName identifies one area of the dashboard.
type RegionName string

// Dashboard regions.
const (
	RegionScatter   RegionName = "scatter"
	RegionTooltip   RegionName = "tooltip"
	RegionStats     RegionName = "stats"
	RegionBreakdown RegionName = "breakdown"
	RegionSelection RegionName = "selection"
	RegionFiles     RegionName = "files"
	RegionNarrative RegionName = "narrative"
)

// AllRegions lists every region in draw order.
var AllRegions = []RegionName{
	RegionStats, RegionScatter, RegionTooltip, RegionBreakdown,
	RegionSelection, RegionFiles, RegionNarrative,
}

// Layer is the complete content of one region.
type Layer interface {
	Region() RegionName
}

// Container holds the content of one region. Replace swaps the whole
// content for layer; it never appends.
type Container interface {
	Replace(layer Layer) error
}

// Surface is the drawing target provided by the host.
type Surface interface {
	Container(name RegionName) (Container, bool)
}

// Board is a Surface whose regions were checked once at bind time.
type Board struct {
	containers map[RegionName]Container
}

// Bind resolves every named region of s, or AllRegions when none are named.
func Bind(s Surface, names ...RegionName) (*Board, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no surface", ErrMissingContainer)
	}
	if len(names) == 0 {
		names = AllRegions
	}
	b := &Board{containers: make(map[RegionName]Container, len(names))}
	for _, name := range names {
		c, ok := s.Container(name)
		if !ok || c == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingContainer, name)
		}
		b.containers[name] = c
	}
	return b, nil
}

// Draw replaces the content of each layer's region. Every region is checked
// before any is written, so a missing one leaves the board untouched.
func (b *Board) Draw(layers ...Layer) error {
	targets := make([]Container, len(layers))
	for i, layer := range layers {
		c, ok := b.containers[layer.Region()]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingContainer, layer.Region())
		}
		targets[i] = c
	}
	for i, layer := range layers {
		if err := targets[i].Replace(layer); err != nil {
			return fmt.Errorf("drawing %s: %w", layer.Region(), err)
		}
	}
	return nil
}

// Has reports whether the board bound name.
func (b *Board) Has(name RegionName) bool {
	_, ok := b.containers[name]
	return ok
}
