package render

import "github.com/ccollicutt/commitlens/pkg/commits"

// Date and time layouts used for commit timestamps.
const (
	LongDateLayout  = "Monday, January 2, 2006"
	ShortTimeLayout = "3:04 PM"
)

// Pointer is a position in plot pixel space.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tooltip describes c at the pointer position.
func Tooltip(c *commits.Commit, at Pointer) TooltipLayer {
	if c == nil {
		return HiddenTooltip()
	}
	author := c.Author
	if author == "" {
		author = "Unknown"
	}
	return TooltipLayer{
		Visible: true,
		ID:      c.ID,
		URL:     c.URL,
		Date:    c.Datetime.Format(LongDateLayout),
		Time:    c.Datetime.Format(ShortTimeLayout),
		Author:  author,
		Lines:   c.TotalLines,
		X:       at.X,
		Y:       at.Y,
	}
}

// HiddenTooltip is the tooltip when nothing is hovered.
func HiddenTooltip() TooltipLayer {
	return TooltipLayer{}
}
