package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/controller"
)

// ScrubOptions holds command-line options for the scrub command.
type ScrubOptions struct {
	Output   string
	Progress float64
	Step     int
}

// scrubReport is the JSON form of the scrub command.
type scrubReport struct {
	Progress float64           `json:"progress"`
	Cutoff   string            `json:"cutoff"`
	Active   []*commits.Commit `json:"active"`
}

// NewScrubCommand creates the scrub command.
func NewScrubCommand() *cobra.Command {
	opts := &ScrubOptions{}

	cmd := &cobra.Command{
		Use:   "scrub <config-file>",
		Short: "List the commits at or before a time cutoff",
		Long: `Move the time cutoff the way the dashboard slider or the narrative does
and list the commits that are active at that point.

--progress places the cutoff as a percentage of the history (0-100).
--step places it at the commit of a narrative step (0-based).`,
		Example: `  commitlens scrub commitlens.yaml --progress 50
  commitlens scrub commitlens.yaml --step 3 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrub(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().Float64Var(&opts.Progress, "progress", 0, "Time cutoff as a percentage of the commit history (0-100)")
	cmd.Flags().IntVar(&opts.Step, "step", 0, "Move the cutoff to the commit at this narrative step")
	cmd.MarkFlagsMutuallyExclusive("progress", "step")
	cmd.MarkFlagsOneRequired("progress", "step")

	return cmd
}

func runScrub(cmd *cobra.Command, args []string, opts *ScrubOptions) error {
	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
	view, err := buildView(cmd, opts.Progress, opts.Step, "", "")
	if err != nil {
		return err
	}

	cfg, ds, err := openDataset(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	d, _, err := controller.Snapshot(ds, view, dashboardOptions(cfg)...)
	if err != nil {
		return err
	}

	report := scrubReport{
		Progress: d.State().Progress(),
		Cutoff:   d.FormatCutoff(),
		Active:   d.State().ActiveCommits(),
	}

	w := cmd.OutOrStdout()
	if opts.Output == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	printScrub(w, report, len(ds.Commits))
	return nil
}

func printScrub(w io.Writer, r scrubReport, total int) {
	if total == 0 {
		_, _ = fmt.Fprintln(w, "No commits in dataset")
		return
	}

	_, _ = fmt.Fprintf(w, "Cutoff: %s (%.0f%%)\n", r.Cutoff, r.Progress)
	_, _ = fmt.Fprintf(w, "Active: %d of %d commits\n\n", len(r.Active), total)
	if len(r.Active) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Commit", "Author", "Datetime", "Lines", "Files"})
	for _, c := range r.Active {
		t.AppendRow(table.Row{c.ID, c.Author, c.Datetime.Format("2006-01-02 15:04 -0700"), c.TotalLines, c.FileCount()})
	}
	t.Render()
}
