package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ccollicutt/commitlens/pkg/render"
)

const (
	chartWidth    = "100%"
	chartHeight   = "500px"
	pieWidth      = "600px"
	pieHeight     = "400px"
	colorCommit   = "#4e79a7"
	colorSelected = "#e15759"
	maxFileBars   = 40
)

// HTMLFormatter renders reports as a self-contained echarts page.
type HTMLFormatter struct {
	opts  FormatOptions
	title string
}

// NewHTMLFormatter creates a new HTML formatter with the given options.
func NewHTMLFormatter(opts FormatOptions) *HTMLFormatter {
	return &HTMLFormatter{opts: opts, title: "commitlens"}
}

// Name returns the format name.
func (f *HTMLFormatter) Name() string {
	return "html"
}

// Format renders the report as an HTML page.
func (f *HTMLFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = f.title

	page.AddCharts(scatterChart(report), breakdownChart(report))
	if !f.opts.Quiet {
		page.AddCharts(filesChart(report))
	}
	if report.Projects != nil && len(report.Projects.Slices) > 0 {
		page.AddCharts(projectsChart(report.Projects))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func scatterChart(report *Report) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commits by time of day",
			Subtitle: cutoffSubtitle(report),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hour", Type: "value", Min: 0, Max: 24}),
	)

	rest := make([]opts.ScatterData, 0, len(report.Scatter.Points))
	brushed := make([]opts.ScatterData, 0)
	for _, p := range report.Scatter.Points {
		point := opts.ScatterData{
			Name:       p.ID,
			Value:      []any{p.Datetime.Format(time.RFC3339), p.HourFrac, p.Lines},
			SymbolSize: int(2 * p.R),
		}
		if p.Selected {
			brushed = append(brushed, point)
		} else {
			rest = append(rest, point)
		}
	}

	scatter.AddSeries("Commits", rest,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorCommit, Opacity: opts.Float(render.OpacityRest)}),
	)
	if len(brushed) > 0 {
		scatter.AddSeries("Selected", brushed,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSelected}),
		)
	}
	return scatter
}

func cutoffSubtitle(report *Report) string {
	if report.Metadata.Cutoff == "" {
		return "No commits"
	}
	return fmt.Sprintf("Through %s · %s", report.Metadata.Cutoff, report.Selection.Text)
}

func breakdownChart(report *Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Language breakdown",
			Subtitle: fmt.Sprintf("%d lines", report.Breakdown.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lines", Type: "value"}),
	)

	labels := make([]string, len(report.Breakdown.Entries))
	data := make([]opts.BarData, len(report.Breakdown.Entries))
	for i, e := range report.Breakdown.Entries {
		labels[i] = e.Type
		data[i] = opts.BarData{Name: e.Label, Value: e.Count}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Lines", data)
	return bar
}

func filesChart(report *Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Files", Subtitle: "Changed lines per file by type"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lines", Type: "value"}),
	)

	files := report.Files.Files
	if len(files) > maxFileBars {
		files = files[:maxFileBars]
	}

	names := make([]string, len(files))
	var types []string
	colors := make(map[string]string)
	counts := make(map[string][]int)
	for i, g := range files {
		names[i] = g.Name
		for _, u := range g.Units {
			if _, ok := counts[u.Type]; !ok {
				types = append(types, u.Type)
				colors[u.Type] = u.Color
				counts[u.Type] = make([]int, len(files))
			}
			counts[u.Type][i]++
		}
	}

	bar.SetXAxis(names)
	for _, t := range types {
		data := make([]opts.BarData, len(files))
		for i, n := range counts[t] {
			data[i] = opts.BarData{Value: n}
		}
		bar.AddSeries(t, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "lines"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[t]}),
		)
	}
	return bar
}

func projectsChart(p *ProjectsSection) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: pieWidth, Height: pieHeight}),
		charts.WithTitleOpts(opts.Title{Title: p.Heading}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	data := make([]opts.PieData, len(p.Slices))
	for i, s := range p.Slices {
		data[i] = opts.PieData{
			Name:      s.Label,
			Value:     s.Value,
			Selected:  opts.Bool(i == p.Selected),
			ItemStyle: &opts.ItemStyle{Color: s.Color},
		}
	}
	pie.AddSeries("Projects", data)
	return pie
}
