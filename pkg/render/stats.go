package render

import "github.com/ccollicutt/commitlens/pkg/commits"

// Stats summarises the full dataset. An empty dataset gives zero values.
func Stats(all []*commits.Commit) StatsLayer {
	lines := commits.Flatten(all)
	layer := StatsLayer{
		TotalLOC: len(lines),
		Commits:  len(all),
		Files:    commits.FileCount(lines),
	}
	for _, l := range lines {
		if l.Length > layer.LongestLine {
			layer.LongestLine = l.Length
		}
		if l.Depth > layer.MaxDepth {
			layer.MaxDepth = l.Depth
		}
	}
	if lo, _, ok := commits.Extent(all); ok {
		layer.FirstCommit = lo
	}
	return layer
}
