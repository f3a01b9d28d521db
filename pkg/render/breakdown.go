package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ccollicutt/commitlens/pkg/commits"
)

// Breakdown counts the lines of cs per type tag in first-seen order.
func Breakdown(cs []*commits.Commit) BreakdownLayer {
	lines := commits.Flatten(cs)
	layer := BreakdownLayer{Total: len(lines), Entries: make([]BreakdownEntry, 0)}

	index := make(map[string]int)
	for _, l := range lines {
		i, ok := index[l.Type]
		if !ok {
			i = len(layer.Entries)
			index[l.Type] = i
			layer.Entries = append(layer.Entries, BreakdownEntry{Type: l.Type})
		}
		layer.Entries[i].Count++
	}
	for i := range layer.Entries {
		e := &layer.Entries[i]
		e.Percent = float64(e.Count) / float64(layer.Total)
		e.Label = FormatPercent(e.Percent)
	}
	return layer
}

// FormatPercent renders a fraction as a percentage with one decimal,
// dropping a trailing ".0" (0.5 -> "50%", 2/3 -> "66.7%").
func FormatPercent(frac float64) string {
	s := strconv.FormatFloat(math.Round(frac*1000)/10, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "%"
}

// SelectionCount reports how many commits the brush selected.
func SelectionCount(n int) SelectionLayer {
	switch n {
	case 0:
		return SelectionLayer{Text: "No commits selected"}
	case 1:
		return SelectionLayer{Count: 1, Text: "1 commit selected"}
	default:
		return SelectionLayer{Count: n, Text: fmt.Sprintf("%d commits selected", n)}
	}
}
