package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/output"
	"github.com/ccollicutt/commitlens/pkg/selection"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// RenderOptions holds command-line options for the render command.
type RenderOptions struct {
	Output    string
	Out       string
	Progress  float64
	Step      int
	Brush     string
	Hover     string
	Search    string
	Year      string
	Verbose   bool
	Quiet     bool
	FailEmpty bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <config-file>",
		Short: "Render the dashboard for a commit history",
		Long: `Load the configured line-change logs and render the dashboard.

The dashboard is drawn once, then the requested gestures are replayed on it:
the time cutoff (--progress or --step), the brush rectangle, then the hover.

Output formats:
  text - tables for the terminal
  json - every rendered view
  html - a standalone page with interactive charts

Exit codes:
  0 - Rendered
  1 - --fail-empty was given and the logs hold no commits
  2 - Configuration or runtime error`,
		Example: `  commitlens render commitlens.yaml
  commitlens render commitlens.yaml --progress 40 --brush 100,50,400,300
  commitlens render commitlens.yaml -o html --out dashboard.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|html)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write to file instead of stdout")
	cmd.Flags().Float64Var(&opts.Progress, "progress", 0, "Time cutoff as a percentage of the commit history (0-100)")
	cmd.Flags().IntVar(&opts.Step, "step", 0, "Move the cutoff to the commit at this narrative step")
	cmd.Flags().StringVar(&opts.Brush, "brush", "", "Brush rectangle in plot pixels: x0,y0,x1,y1")
	cmd.Flags().StringVar(&opts.Hover, "hover", "", "Show the tooltip for this commit")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Filter projects by text")
	cmd.Flags().StringVar(&opts.Year, "year", "", "Select the projects of one year")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include file composition and narrative")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.FailEmpty, "fail-empty", false, "Exit 1 when the logs hold no commits")
	cmd.MarkFlagsMutuallyExclusive("progress", "step")

	return cmd
}

// buildView turns the gesture flags that were given into a view.
func buildView(cmd *cobra.Command, progress float64, step int, brush, hover string) (controller.View, error) {
	var v controller.View
	if cmd.Flags().Changed("progress") {
		v.Progress = &progress
	}
	if cmd.Flags().Changed("step") {
		v.Step = &step
	}
	if brush != "" {
		r, err := selection.ParseRegion(brush)
		if err != nil {
			return v, fmt.Errorf("invalid --brush: %w", err)
		}
		v.Brush = &r
	}
	v.Hover = hover
	return v, nil
}

func runRender(cmd *cobra.Command, args []string, opts *RenderOptions) error {
	configPath := args[0]
	ctx := commandContext(cmd)

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}
	view, err := buildView(cmd, opts.Progress, opts.Step, opts.Brush, opts.Hover)
	if err != nil {
		return err
	}

	cfg, ds, err := openDataset(ctx, configPath)
	if err != nil {
		return err
	}

	d, canvas, err := controller.Snapshot(ds, view, dashboardOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}

	report := output.NewReport(canvas, output.NewMetadata(ds, d, configPath))
	report.WithProjects(loadBrowser(ctx, cfg, opts.Search, opts.Year))

	var w io.Writer = cmd.OutOrStdout()
	if opts.Out != "" {
		f, err := os.Create(opts.Out) // #nosec G304 -- output path is provided by the user
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	if opts.Out != "" {
		Logger.Info("dashboard written", zap.String("file", opts.Out), zap.String("format", formatter.Name()))
	}

	if opts.FailEmpty && !report.HasCommits() {
		ExitCode = 1
	}
	return nil
}

func createFormatter(opts *RenderOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	case "html":
		return output.NewHTMLFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json or html)", opts.Output)
	}
}
