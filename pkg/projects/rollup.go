package projects

import "github.com/ccollicutt/commitlens/pkg/scale"

// Slice is one pie wedge: a year and how many projects it has.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// RollupByYear counts projects per year in first-seen order.
func RollupByYear(list []Project) []Slice {
	index := make(map[Year]int)
	slices := make([]Slice, 0)
	for _, p := range list {
		i, ok := index[p.Year]
		if !ok {
			i = len(slices)
			index[p.Year] = i
			slices = append(slices, Slice{
				Label: string(p.Year),
				Color: scale.Tableau10[i%len(scale.Tableau10)],
			})
		}
		slices[i].Value++
	}
	return slices
}
