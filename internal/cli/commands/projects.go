package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/output"
)

// ProjectsOptions holds command-line options for the projects command.
type ProjectsOptions struct {
	Output string
	Search string
	Year   string
}

// NewProjectsCommand creates the projects command.
func NewProjectsCommand() *cobra.Command {
	opts := &ProjectsOptions{}

	cmd := &cobra.Command{
		Use:   "projects <config-file>",
		Short: "Browse the configured projects list",
		Long: `Fetch the projects list named by projects.source, group it by year and
print the matching projects.

--search keeps projects whose title, year, image or description contain the
text, ignoring case. --year narrows the list to one year.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter projects by text")
	cmd.Flags().StringVar(&opts.Year, "year", "", "Select the projects of one year")

	return cmd
}

func runProjects(cmd *cobra.Command, args []string, opts *ProjectsOptions) error {
	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
	ctx := commandContext(cmd)

	cfg, err := config.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Projects.Source == "" {
		return errors.New("no projects source configured (set projects.source)")
	}

	b := loadBrowser(ctx, cfg, opts.Search, opts.Year)
	if b == nil {
		return fmt.Errorf("projects could not be loaded from %s", cfg.Projects.Source)
	}
	section := (&output.Report{}).WithProjects(b).Projects

	w := cmd.OutOrStdout()
	if opts.Output == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(section)
	}
	printProjects(w, section)
	return nil
}

func printProjects(w io.Writer, p *output.ProjectsSection) {
	_, _ = fmt.Fprintln(w, p.Heading)
	_, _ = fmt.Fprintln(w)

	years := table.NewWriter()
	years.SetOutputMirror(w)
	years.SetStyle(table.StyleLight)
	years.AppendHeader(table.Row{"Year", "Projects", ""})
	for i, s := range p.Slices {
		marker := ""
		if i == p.Selected {
			marker = "*"
		}
		years.AppendRow(table.Row{s.Label, s.Value, marker})
	}
	years.Render()

	if len(p.Projects) == 0 {
		return
	}
	list := table.NewWriter()
	list.SetOutputMirror(w)
	list.SetStyle(table.StyleLight)
	list.AppendHeader(table.Row{"Title", "Year", "Description"})
	for _, pr := range p.Projects {
		list.AppendRow(table.Row{pr.Title, string(pr.Year), truncate(pr.Description, 60)})
	}
	list.Render()
}
