package render

import (
	"sort"

	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/scale"
)

// Files groups the lines of the active commits by file, largest first.
// Colours are assigned from palette so a type keeps its colour across draws.
func Files(active []*commits.Commit, palette *scale.Ordinal) FilesLayer {
	index := make(map[string]int)
	groups := make([]FileGroup, 0)
	for _, l := range commits.Flatten(active) {
		i, ok := index[l.File]
		if !ok {
			i = len(groups)
			index[l.File] = i
			groups = append(groups, FileGroup{Name: l.File})
		}
		groups[i].Units = append(groups[i].Units, Unit{Type: l.Type})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Units) > len(groups[j].Units)
	})

	for i := range groups {
		groups[i].Lines = len(groups[i].Units)
		for j := range groups[i].Units {
			groups[i].Units[j].Color = palette.Color(groups[i].Units[j].Type)
		}
	}
	return FilesLayer{Files: groups}
}
