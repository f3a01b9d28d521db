package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/loader"
	"github.com/ccollicutt/commitlens/pkg/output"
)

const sampleLog = `commit,author,date,time,timezone,datetime,file,type,line,depth,length
a1,Ada,2024-01-10,09:00,+00:00,2024-01-10T09:00:00Z,index.html,html,1,0,20
a1,Ada,2024-01-10,09:00,+00:00,2024-01-10T09:00:00Z,index.html,html,2,1,30
b2,Bob,2024-01-12,13:30,+00:00,2024-01-12T13:30:00Z,style.css,css,1,0,15
c3,Ada,2024-01-20,22:15,+00:00,2024-01-20T22:15:00Z,main.js,js,1,0,40
c3,Ada,2024-01-20,22:15,+00:00,2024-01-20T22:15:00Z,main.js,js,2,2,41
c3,Ada,2024-01-20,22:15,+00:00,2024-01-20T22:15:00Z,index.html,html,3,1,10
`

const sampleProjects = `[
  {"title": "Lab 1", "year": "2024", "description": "Intro to HTML"},
  {"title": "Weather App", "year": 2023, "description": "Fetches forecasts"},
  {"title": "Lab 2", "year": "2024", "description": "CSS grid layouts"},
  {"title": "Pie Chart", "year": "2025", "description": "d3 pie"}
]`

// fixture writes a log and a config naming it, plus any extra YAML.
func fixture(t *testing.T, log, extra string) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	logPath := filepath.Join(dir, "loc.csv")
	require.NoError(t, os.WriteFile(logPath, []byte(log), 0o644))

	configPath = filepath.Join(dir, "commitlens.yaml")
	yaml := "log_sources:\n  - " + logPath + "\n" + extra
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return dir, configPath
}

func withProjects(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleProjects), 0o644))
	return "projects:\n  source: " + path + "\n"
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func resetExitCode(t *testing.T) {
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
}

func TestNewCommands(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRenderCommand(), "render <config-file>", []string{"output", "out", "progress", "step", "brush", "hover", "search", "year", "verbose", "quiet", "fail-empty"}},
		{NewStatsCommand(), "stats <config-file>", []string{"output"}},
		{NewScrubCommand(), "scrub <config-file>", []string{"output", "progress", "step"}},
		{NewProjectsCommand(), "projects <config-file>", []string{"output", "search", "year"}},
		{NewServeCommand(), "serve <config-file>", []string{"addr", "watch"}},
		{NewDetectCommand(), "detect <loc.csv>", []string{"output", "sample", "all", "write-config"}},
		{NewDiagnoseCommand(), "diagnose <config-file>", []string{"verbose", "sample"}},
		{NewValidateCommand(), "validate <config-file>", nil},
		{NewCacheCommand(), "cache <config-file>", []string{"purge"}},
		{NewVersionCommand(), "version", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "missing flag %s", flag)
			}
		})
	}
}

func TestRender_Text(t *testing.T) {
	resetExitCode(t)
	_, configPath := fixture(t, sampleLog, "")

	out, err := execute(t, NewRenderCommand(), configPath)
	require.NoError(t, err)

	assert.Contains(t, out, "=== commitlens Dashboard ===")
	assert.Contains(t, out, "Cutoff: January 20, 2024 at 10:15 PM (100%)")
	assert.Contains(t, out, "Summary: 3 commits, 3 active, 0 selected")
	assert.Equal(t, 0, ExitCode)
}

func TestRender_JSONGestures(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	tests := []struct {
		name   string
		args   []string
		active int
	}{
		{"default", nil, 3},
		{"progress", []string{"--progress", "50"}, 2},
		{"progress zero", []string{"--progress", "0"}, 0},
		{"step", []string{"--step", "0"}, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{configPath, "-o", "json"}, tt.args...)
			out, err := execute(t, NewRenderCommand(), args...)
			require.NoError(t, err)

			var report output.Report
			require.NoError(t, json.Unmarshal([]byte(out), &report))
			assert.Equal(t, 3, report.Summary.Commits)
			assert.Equal(t, tt.active, report.Summary.Active)
		})
	}
}

func TestRender_Hover(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	out, err := execute(t, NewRenderCommand(), configPath, "-o", "json", "--hover", "b2")
	require.NoError(t, err)
	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Tooltip.Visible)

	_, err = execute(t, NewRenderCommand(), configPath, "--hover", "zz")
	assert.ErrorIs(t, err, controller.ErrUnknownCommit)
}

func TestRender_HTMLToFile(t *testing.T) {
	dir, configPath := fixture(t, sampleLog, "")
	outPath := filepath.Join(dir, "dashboard.html")

	out, err := execute(t, NewRenderCommand(), configPath, "-o", "html", "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
	assert.Contains(t, string(data), "commitlens")
}

func TestRender_Projects(t *testing.T) {
	_, configPath := fixture(t, sampleLog, withProjects(t))

	out, err := execute(t, NewRenderCommand(), configPath, "-o", "json", "--year", "2024")
	require.NoError(t, err)

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Projects)
	assert.Equal(t, "2 Projects", report.Projects.Heading)
	assert.Len(t, report.Projects.Projects, 2)
}

func TestRender_FailEmpty(t *testing.T) {
	resetExitCode(t)
	header := strings.SplitN(sampleLog, "\n", 2)[0] + "\n"
	_, configPath := fixture(t, header, "")

	out, err := execute(t, NewRenderCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No commits in dataset")
	assert.Equal(t, 0, ExitCode)

	_, err = execute(t, NewRenderCommand(), configPath, "--fail-empty")
	require.NoError(t, err)
	assert.Equal(t, 1, ExitCode)
}

func TestRender_Errors(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{configPath, "-o", "xml"}, "unknown output format"},
		{"bad brush", []string{configPath, "--brush", "1,2,3"}, "invalid --brush"},
		{"progress and step", []string{configPath, "--progress", "10", "--step", "1"}, "none of the others"},
		{"unknown step", []string{configPath, "--step", "9"}, "unknown narrative step"},
		{"missing config", []string{filepath.Join(t.TempDir(), "nope.yaml")}, "loading config"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, NewRenderCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender_MalformedLog(t *testing.T) {
	_, configPath := fixture(t, sampleLog+"d4,Ada,2024-01-21,10:00,+00:00,2024-01-21T10:00:00Z,a.go,go,x,0,1\n", "")

	_, err := execute(t, NewRenderCommand(), configPath)
	require.ErrorIs(t, err, loader.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "row 7")
}

func TestStats(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	out, err := execute(t, NewStatsCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Lines of code")
	assert.Contains(t, out, "Jan 10, 2024")
	assert.Contains(t, out, "50%")

	out, err = execute(t, NewStatsCommand(), configPath, "-o", "json")
	require.NoError(t, err)
	var report statsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Stats.Commits)
	assert.Equal(t, 6, report.Breakdown.Total)
	require.Len(t, report.Breakdown.Entries, 3)
	assert.Equal(t, "html", report.Breakdown.Entries[0].Type)
	assert.Equal(t, 3, report.Breakdown.Entries[0].Count)
}

func TestScrub(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	out, err := execute(t, NewScrubCommand(), configPath, "--progress", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "(50%)")
	assert.Contains(t, out, "Active: 2 of 3 commits")
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "b2")
	assert.NotContains(t, out, "c3")

	out, err = execute(t, NewScrubCommand(), configPath, "--step", "2", "-o", "json")
	require.NoError(t, err)
	var report scrubReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Active, 3)
	assert.Equal(t, "January 20, 2024 at 10:15 PM", report.Cutoff)

	_, err = execute(t, NewScrubCommand(), configPath)
	assert.Error(t, err)
}

func TestProjects(t *testing.T) {
	_, configPath := fixture(t, sampleLog, withProjects(t))

	out, err := execute(t, NewProjectsCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "4 Projects")
	assert.Contains(t, out, "Weather App")

	out, err = execute(t, NewProjectsCommand(), configPath, "--search", "LAB")
	require.NoError(t, err)
	assert.Contains(t, out, "2 Projects")
	assert.NotContains(t, out, "Weather App")

	out, err = execute(t, NewProjectsCommand(), configPath, "--year", "2023", "-o", "json")
	require.NoError(t, err)
	var section output.ProjectsSection
	require.NoError(t, json.Unmarshal([]byte(out), &section))
	require.Len(t, section.Projects, 1)
	assert.Equal(t, "Weather App", section.Projects[0].Title)
	assert.Equal(t, "2023", section.Slices[section.Selected].Label)
}

func TestProjects_NotConfigured(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	_, err := execute(t, NewProjectsCommand(), configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no projects source")
}

func TestValidate(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")

	out, err := execute(t, NewValidateCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "Log files matched: 1")

	dir := t.TempDir()
	missing := filepath.Join(dir, "commitlens.yaml")
	require.NoError(t, os.WriteFile(missing, []byte("log_sources:\n  - "+filepath.Join(dir, "gone.csv")+"\n"), 0o644))
	out, err = execute(t, NewValidateCommand(), missing)
	require.NoError(t, err)
	assert.Contains(t, out, "No files match")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log_sources: []\n"), 0o644))
	_, err = execute(t, NewValidateCommand(), invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCache(t *testing.T) {
	dir, configPath := fixture(t, sampleLog, "")
	cachePath := filepath.Join(dir, "cache.db")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("log_sources:\n  - "+filepath.Join(dir, "loc.csv")+"\ncache:\n  path: "+cachePath+"\n"), 0o644))

	out, err := execute(t, NewCacheCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 cached log file(s)")

	_, err = execute(t, NewStatsCommand(), configPath)
	require.NoError(t, err)

	out, err = execute(t, NewCacheCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 cached log file(s)")

	out, err = execute(t, NewCacheCommand(), configPath, "--purge")
	require.NoError(t, err)
	assert.Contains(t, out, "purged 1")

	out, err = execute(t, NewCacheCommand(), configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 cached log file(s)")
}

func TestCache_NotConfigured(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")
	_, err := execute(t, NewCacheCommand(), configPath)
	assert.Error(t, err)
}

func TestServe_InvalidAddr(t *testing.T) {
	_, configPath := fixture(t, sampleLog, "")
	_, err := execute(t, NewServeCommand(), configPath, "--addr", "not an address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, NewVersionCommand())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "commitlens dev ("))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewLogger("info", "console")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud", "console")
	assert.Error(t, err)

	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}
