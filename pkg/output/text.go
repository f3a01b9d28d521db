package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ccollicutt/commitlens/pkg/render"
)

// FirstCommitLayout formats the first-commit date in the stats table.
const FirstCommitLayout = "Jan 2, 2006"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts    FormatOptions
	heading *color.Color
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{
		opts:    opts,
		heading: color.New(color.Bold, color.FgCyan),
	}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "commitlens: %s commits, %s lines, %s files (%d active, %d selected)\n",
		humanize.Comma(int64(report.Summary.Commits)),
		humanize.Comma(int64(report.Summary.Lines)),
		humanize.Comma(int64(report.Summary.Files)),
		report.Summary.Active,
		report.Summary.Selected)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	f.heading.Fprintln(w, "=== commitlens Dashboard ===")
	fmt.Fprintln(w)

	if !report.HasCommits() {
		fmt.Fprintln(w, "No commits in dataset")
		fmt.Fprintln(w)
	} else {
		f.formatStats(report.Stats, w)
		f.formatCutoff(report.Metadata, w)
		f.formatBreakdown(report.Breakdown, report.Selection, w)
		if f.opts.Verbose {
			f.formatFiles(report.Files, w)
			f.formatNarrative(report.Narrative, w)
		}
	}

	if report.Projects != nil {
		f.formatProjects(report.Projects, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s commits, %d active, %d selected\n",
		humanize.Comma(int64(report.Summary.Commits)),
		report.Summary.Active,
		report.Summary.Selected)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
		fmt.Fprintf(w, "Cache hits: %d\n", report.Metadata.CacheHits)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	return tbl
}

func (f *TextFormatter) formatStats(stats render.StatsLayer, w io.Writer) {
	f.heading.Fprintln(w, "Summary statistics")
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Total LOC", "Commits", "Files", "Longest line", "Max depth", "First commit"})
	first := ""
	if !stats.FirstCommit.IsZero() {
		first = stats.FirstCommit.Format(FirstCommitLayout)
	}
	tbl.AppendRow(table.Row{
		humanize.Comma(int64(stats.TotalLOC)),
		humanize.Comma(int64(stats.Commits)),
		humanize.Comma(int64(stats.Files)),
		stats.LongestLine,
		stats.MaxDepth,
		first,
	})
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatCutoff(meta Metadata, w io.Writer) {
	if meta.Cutoff == "" {
		return
	}
	fmt.Fprintf(w, "Cutoff: %s (%.0f%%)\n", meta.Cutoff, meta.Progress)
	if meta.Brush != nil {
		fmt.Fprintf(w, "Brush: %s\n", meta.Brush)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatBreakdown(b render.BreakdownLayer, sel render.SelectionLayer, w io.Writer) {
	f.heading.Fprintln(w, "Language breakdown")
	if len(b.Entries) == 0 {
		fmt.Fprintln(w, "  No lines selected")
	} else {
		tbl := newTable()
		tbl.AppendHeader(table.Row{"Type", "Lines", "Share"})
		for _, e := range b.Entries {
			tbl.AppendRow(table.Row{e.Type, humanize.Comma(int64(e.Count)), e.Label})
		}
		tbl.AppendFooter(table.Row{"Total", humanize.Comma(int64(b.Total)), ""})
		fmt.Fprintln(w, tbl.Render())
	}
	fmt.Fprintf(w, "%s\n\n", sel.Text)
}

func (f *TextFormatter) formatFiles(files render.FilesLayer, w io.Writer) {
	f.heading.Fprintln(w, "Files")
	if len(files.Files) == 0 {
		fmt.Fprintln(w, "  No commits before cutoff")
		fmt.Fprintln(w)
		return
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"File", "Lines", "Types"})
	for _, g := range files.Files {
		tbl.AppendRow(table.Row{g.Name, g.Lines, typeCounts(g.Units)})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d files", len(files.Files)), "", ""})
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)
}

// typeCounts summarises units as "go:3 css:1", largest first.
func typeCounts(units []render.Unit) string {
	counts := make(map[string]int)
	var order []string
	for _, u := range units {
		if _, ok := counts[u.Type]; !ok {
			order = append(order, u.Type)
		}
		counts[u.Type]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	parts := make([]string, len(order))
	for i, t := range order {
		parts[i] = fmt.Sprintf("%s:%d", t, counts[t])
	}
	return strings.Join(parts, " ")
}

func (f *TextFormatter) formatNarrative(n render.NarrativeLayer, w io.Writer) {
	f.heading.Fprintln(w, "Narrative")
	for _, s := range n.Steps {
		fmt.Fprintf(w, "  %d. %s\n", s.Index+1, s.Text)
		if s.URL != "" {
			fmt.Fprintf(w, "     %s\n", s.URL)
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatProjects(p *ProjectsSection, w io.Writer) {
	f.heading.Fprintln(w, p.Heading)
	if len(p.Slices) > 0 {
		tbl := newTable()
		tbl.AppendHeader(table.Row{"Year", "Projects"})
		for i, s := range p.Slices {
			label := s.Label
			if i == p.Selected {
				label += " *"
			}
			tbl.AppendRow(table.Row{label, s.Value})
		}
		fmt.Fprintln(w, tbl.Render())
	}
	for _, proj := range p.Projects {
		fmt.Fprintf(w, "  %s (%s)\n", proj.Title, proj.Year)
		if f.opts.Verbose && proj.Description != "" {
			fmt.Fprintf(w, "    %s\n", proj.Description)
		}
	}
	fmt.Fprintln(w)
}
