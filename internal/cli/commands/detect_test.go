package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/detector"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func detectFile(t *testing.T, path string) *detector.DetectionResult {
	t.Helper()
	result, err := detector.New().DetectFromFile(context.Background(), path)
	require.NoError(t, err)
	return result
}

func TestDetect_Text(t *testing.T) {
	logPath := writeLog(t, sampleLog+"d4,Ada,2024-01-21,10:00,+00:00,2024-01-21T10:00:00Z,a.go,go,-1,0,1\n")

	out, err := execute(t, NewDetectCommand(), logPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Rows sampled: 7")
	assert.Contains(t, out, "Rows loaded: 6")
	assert.Contains(t, out, "Datetime layout: RFC 3339")
	assert.Contains(t, out, "Commits: 3")
	assert.Contains(t, out, "Types: html:3 js:2 css:1")
	assert.Contains(t, out, "Error: row 7: line")
	assert.Contains(t, out, "would not load")
}

func TestDetect_JSON(t *testing.T) {
	logPath := writeLog(t, sampleLog)

	out, err := execute(t, NewDetectCommand(), logPath, "-o", "json", "--all")
	require.NoError(t, err)

	var result JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Usable)
	assert.Equal(t, 6, result.SampledRows)
	assert.Equal(t, 3, result.Commits)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "RFC 3339", result.Matches[0].Name)
	assert.Equal(t, 1.0, result.Matches[0].Confidence)
	assert.Len(t, result.Matches, 2)
}

func TestDetect_NotFound(t *testing.T) {
	_, err := execute(t, NewDetectCommand(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log file not found")
}

func TestDetect_WriteConfig(t *testing.T) {
	logPath := writeLog(t, sampleLog)
	configPath := filepath.Join(t.TempDir(), "commitlens.yaml")

	out, err := execute(t, NewDetectCommand(), logPath, "--write-config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote starter config to: "+configPath)

	cfg, err := config.Load(context.Background(), configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{logPath}, cfg.LogSources)
	assert.Equal(t, config.DefaultConfig().Render, cfg.Render)

	_, err = execute(t, NewDetectCommand(), logPath, "--write-config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "will not overwrite")
}

func TestGenerateStarterConfig(t *testing.T) {
	logPath := writeLog(t, sampleLog)
	content := generateStarterConfig(logPath, detectFile(t, logPath))

	for _, want := range []string{
		"log_sources:",
		logPath,
		"RFC 3339 (100% of sampled rows)",
		"radius_min:",
		"# repo_url:",
		`addr: "127.0.0.1:8080"`,
	} {
		assert.Contains(t, content, want)
	}

	derived := writeLog(t, "commit,author,date,time,timezone,file,type,line,depth,length\n"+
		"a1,Ada,2024-01-10,09:00,+00:00,a.go,go,1,0,10\n")
	content = generateStarterConfig(derived, detectFile(t, derived))
	assert.Contains(t, content, "derived from date, time and timezone")

	_, err := config.Parse([]byte(content))
	assert.NoError(t, err)
}

func TestWriteStarterConfig_Refuses(t *testing.T) {
	dir := t.TempDir()

	missing := writeLog(t, "commit,author,file\na1,Ada,a.go\n")
	err := writeStarterConfig(detectFile(t, missing), missing, filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")

	empty := writeLog(t, "")
	err = writeStarterConfig(detectFile(t, empty), empty, filepath.Join(dir, "b.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, statErr := os.Stat(filepath.Join(dir, "a.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatTypes(t *testing.T) {
	assert.Equal(t, "go:3 css:1 js:1", formatTypes(map[string]int{"js": 1, "go": 3, "css": 1}))
	assert.Equal(t, "", formatTypes(nil))
	assert.True(t, strings.HasPrefix(formatTypes(map[string]int{"a": 1}), "a:1"))
}
