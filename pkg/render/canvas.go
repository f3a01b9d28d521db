package render

import "sync"

// Canvas is an in-memory Surface that keeps the last layer drawn to each
// region. Output formatters read from it.
type Canvas struct {
	mu      sync.RWMutex
	regions map[RegionName]*canvasRegion
}

type canvasRegion struct {
	canvas *Canvas
	name   RegionName
	layer  Layer
	draws  int
}

// NewCanvas creates a canvas with the given regions, AllRegions when none.
func NewCanvas(names ...RegionName) *Canvas {
	if len(names) == 0 {
		names = AllRegions
	}
	c := &Canvas{regions: make(map[RegionName]*canvasRegion, len(names))}
	for _, name := range names {
		c.regions[name] = &canvasRegion{canvas: c, name: name}
	}
	return c
}

// Container implements Surface.
func (c *Canvas) Container(name RegionName) (Container, bool) {
	r, ok := c.regions[name]
	if !ok {
		return nil, false
	}
	return r, true
}

// Layer returns the last layer drawn to name.
func (c *Canvas) Layer(name RegionName) (Layer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.regions[name]
	if !ok || r.layer == nil {
		return nil, false
	}
	return r.layer, true
}

// Draws returns how many times name has been replaced.
func (c *Canvas) Draws(name RegionName) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.regions[name]; ok {
		return r.draws
	}
	return 0
}

// Scatter returns the scatter layer, or the zero layer if none was drawn.
func (c *Canvas) Scatter() ScatterLayer {
	l, _ := c.Layer(RegionScatter)
	v, _ := l.(ScatterLayer)
	return v
}

// Tooltip returns the tooltip layer.
func (c *Canvas) Tooltip() TooltipLayer {
	l, _ := c.Layer(RegionTooltip)
	v, _ := l.(TooltipLayer)
	return v
}

// Stats returns the summary statistics layer.
func (c *Canvas) Stats() StatsLayer {
	l, _ := c.Layer(RegionStats)
	v, _ := l.(StatsLayer)
	return v
}

// Breakdown returns the language breakdown layer.
func (c *Canvas) Breakdown() BreakdownLayer {
	l, _ := c.Layer(RegionBreakdown)
	v, _ := l.(BreakdownLayer)
	return v
}

// Selection returns the selection count layer.
func (c *Canvas) Selection() SelectionLayer {
	l, _ := c.Layer(RegionSelection)
	v, _ := l.(SelectionLayer)
	return v
}

// Files returns the file composition layer.
func (c *Canvas) Files() FilesLayer {
	l, _ := c.Layer(RegionFiles)
	v, _ := l.(FilesLayer)
	return v
}

// Narrative returns the narrative layer.
func (c *Canvas) Narrative() NarrativeLayer {
	l, _ := c.Layer(RegionNarrative)
	v, _ := l.(NarrativeLayer)
	return v
}

func (r *canvasRegion) Replace(layer Layer) error {
	r.canvas.mu.Lock()
	defer r.canvas.mu.Unlock()
	r.layer = layer
	r.draws++
	return nil
}
