package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/output"
	"github.com/ccollicutt/commitlens/pkg/render"
)

// StatsOptions holds command-line options for the stats command.
type StatsOptions struct {
	Output string
}

// statsReport is the JSON form of the stats command.
type statsReport struct {
	Sources   []string              `json:"sources"`
	Stats     render.StatsLayer     `json:"stats"`
	Breakdown render.BreakdownLayer `json:"breakdown"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats <config-file>",
		Short: "Print summary statistics and the language breakdown",
		Long: `Print totals over the whole commit history: changed lines, commits,
files, the longest line, the deepest indentation and the first commit,
followed by the share of changed lines per language.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, opts *StatsOptions) error {
	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	_, ds, err := openDataset(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	report := statsReport{
		Sources:   ds.Sources,
		Stats:     render.Stats(ds.Commits),
		Breakdown: render.Breakdown(ds.Commits),
	}

	w := cmd.OutOrStdout()
	if opts.Output == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	printStats(w, report)
	return nil
}

func printStats(w io.Writer, r statsReport) {
	if r.Stats.Commits == 0 {
		_, _ = fmt.Fprintln(w, "No commits in dataset")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Lines of code", humanize.Comma(int64(r.Stats.TotalLOC))},
		{"Commits", humanize.Comma(int64(r.Stats.Commits))},
		{"Files", humanize.Comma(int64(r.Stats.Files))},
		{"Longest line", fmt.Sprintf("%d chars", r.Stats.LongestLine)},
		{"Max depth", r.Stats.MaxDepth},
		{"First commit", r.Stats.FirstCommit.Format(output.FirstCommitLayout)},
	})
	t.Render()

	b := table.NewWriter()
	b.SetOutputMirror(w)
	b.SetStyle(table.StyleLight)
	b.AppendHeader(table.Row{"Type", "Lines", "Share"})
	for _, e := range r.Breakdown.Entries {
		b.AppendRow(table.Row{e.Type, humanize.Comma(int64(e.Count)), e.Label})
	}
	b.AppendFooter(table.Row{"Total", humanize.Comma(int64(r.Breakdown.Total)), ""})
	b.Render()
}
