package render

import (
	"fmt"

	"github.com/ccollicutt/commitlens/pkg/commits"
)

// Narrative writes one step per commit in datetime order.
func Narrative(all []*commits.Commit) NarrativeLayer {
	steps := make([]Step, 0, len(all))
	for i, c := range all {
		what := "another glorious commit"
		if i == 0 {
			what = "my first commit, and it was glorious"
		}
		files := c.FileCount()
		steps = append(steps, Step{
			Index:    i,
			ID:       c.ID,
			URL:      c.URL,
			Datetime: c.Datetime,
			Lines:    c.TotalLines,
			Files:    files,
			Text: fmt.Sprintf("On %s at %s, I made %s. I edited %d lines across %d files.",
				c.Datetime.Format(LongDateLayout), c.Datetime.Format(ShortTimeLayout),
				what, c.TotalLines, files),
		})
	}
	return NarrativeLayer{Steps: steps}
}
