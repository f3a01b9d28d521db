package commits

import (
	"time"

	"github.com/ccollicutt/commitlens/pkg/loader"
)

// Flatten concatenates the lines of every commit in commit order.
func Flatten(commits []*Commit) []loader.LineRecord {
	n := 0
	for _, c := range commits {
		n += len(c.lines)
	}
	out := make([]loader.LineRecord, 0, n)
	for _, c := range commits {
		out = append(out, c.lines...)
	}
	return out
}

// Extent returns the earliest and latest commit datetime.
// ok is false for an empty slice.
func Extent(commits []*Commit) (lo, hi time.Time, ok bool) {
	for i, c := range commits {
		if i == 0 || c.Datetime.Before(lo) {
			lo = c.Datetime
		}
		if i == 0 || c.Datetime.After(hi) {
			hi = c.Datetime
		}
	}
	return lo, hi, len(commits) > 0
}

// LineExtent returns the smallest and largest TotalLines.
func LineExtent(commits []*Commit) (lo, hi int, ok bool) {
	for i, c := range commits {
		if i == 0 || c.TotalLines < lo {
			lo = c.TotalLines
		}
		if i == 0 || c.TotalLines > hi {
			hi = c.TotalLines
		}
	}
	return lo, hi, len(commits) > 0
}

// FileCount counts distinct file paths.
func FileCount(lines []loader.LineRecord) int {
	files := make(map[string]struct{})
	for _, l := range lines {
		files[l.File] = struct{}{}
	}
	return len(files)
}

// Find returns the commit with the given id, or nil.
func Find(commits []*Commit, id string) *Commit {
	for _, c := range commits {
		if c.ID == id {
			return c
		}
	}
	return nil
}
