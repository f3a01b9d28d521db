package projects

import (
	"fmt"
	"strings"
)

// NoSelection is the selected index when no wedge is chosen.
const NoSelection = -1

// Browser is the search box and pie selection over a project list.
type Browser struct {
	all      []Project
	query    string
	matched  []Project
	slices   []Slice
	selected int
}

// NewBrowser shows every project with nothing selected.
func NewBrowser(list []Project) *Browser {
	b := &Browser{all: list}
	b.Search("")
	return b
}

// Search filters projects whose fields contain query, ignoring case, and
// regroups the pie. The wedge selection is cleared since wedges change.
func (b *Browser) Search(query string) {
	b.query = strings.ToLower(query)
	b.matched = make([]Project, 0, len(b.all))
	for _, p := range b.all {
		if strings.Contains(p.searchText(), b.query) {
			b.matched = append(b.matched, p)
		}
	}
	b.slices = RollupByYear(b.matched)
	b.selected = NoSelection
}

// Toggle selects wedge i, or clears the selection if i is already selected.
func (b *Browser) Toggle(i int) error {
	if i < 0 || i >= len(b.slices) {
		return fmt.Errorf("slice %d out of range [0,%d)", i, len(b.slices))
	}
	if b.selected == i {
		b.selected = NoSelection
	} else {
		b.selected = i
	}
	return nil
}

// SelectYear selects the wedge labelled year. It reports whether one exists.
func (b *Browser) SelectYear(year string) bool {
	for i, s := range b.slices {
		if s.Label == year {
			b.selected = i
			return true
		}
	}
	return false
}

// Query returns the current lower-cased search.
func (b *Browser) Query() string { return b.query }

// Selected returns the selected wedge index or NoSelection.
func (b *Browser) Selected() int { return b.selected }

// Slices returns the pie wedges for the current search.
func (b *Browser) Slices() []Slice { return b.slices }

// Visible returns the projects matching the search and the selected year.
func (b *Browser) Visible() []Project {
	if b.selected == NoSelection {
		return b.matched
	}
	year := Year(b.slices[b.selected].Label)
	out := make([]Project, 0)
	for _, p := range b.matched {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// Heading is the project count title.
func (b *Browser) Heading() string {
	return fmt.Sprintf("%d Projects", len(b.Visible()))
}
