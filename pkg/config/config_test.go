package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
log_sources:
  - meta/loc.csv
repo_url: https://github.com/ada/portfolio
render:
  width: 800
  height: 500
  radius_min: 2
  radius_max: 30
  location: "+02:00"
projects:
  source: https://example.com/projects.json
  timeout: 3s
cache:
  path: /tmp/commitlens.db
server:
  addr: ":9090"
  allowed_origins: ["https://ada.dev"]
  watch: true
`
	path := writeTempFile(t, "commitlens.yaml", content)
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"meta/loc.csv"}, cfg.LogSources)
	assert.Equal(t, "https://github.com/ada/portfolio", cfg.RepoURL)
	assert.Equal(t, 800.0, cfg.Render.Width)
	assert.Equal(t, 30.0, cfg.Render.RadiusMax)
	// Margins not given in the file keep their defaults.
	assert.Equal(t, 30.0, cfg.Render.Margin.Bottom)
	assert.Equal(t, 3*time.Second, cfg.Projects.Timeout)
	assert.Equal(t, "/tmp/commitlens.db", cfg.Cache.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Server.Watch)

	loc := cfg.Render.TimeLocation()
	require.NotNil(t, loc)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7200, offset)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempFile(t, "min.yaml", "log_sources: [loc.csv]\n")
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, float64(DefaultWidth), cfg.Render.Width)
	assert.Equal(t, float64(DefaultHeight), cfg.Render.Height)
	assert.Equal(t, MarginConfig{Top: 10, Right: 10, Bottom: 30, Left: 20}, cfg.Render.Margin)
	assert.Equal(t, float64(DefaultRadiusMin), cfg.Render.RadiusMin)
	assert.Equal(t, float64(DefaultRadiusMax), cfg.Render.RadiusMax)
	assert.Nil(t, cfg.Render.TimeLocation())
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Cache.Path)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvLogSources, "a.csv, logs/*.csv ,")
	t.Setenv(EnvRepoURL, "https://git.example.com/repo")

	path := writeTempFile(t, "env.yaml", "log_sources: [ignored.csv]\n")
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.csv", "logs/*.csv"}, cfg.LogSources)
	assert.Equal(t, "https://git.example.com/repo", cfg.RepoURL)
}

func TestLoad_EnvironmentSuppliesSources(t *testing.T) {
	t.Setenv(EnvLogSources, "loc.csv")
	path := writeTempFile(t, "empty.yaml", "render:\n  width: 640\n")
	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"loc.csv"}, cfg.LogSources)
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.LogSources = []string{"loc.csv"}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "no log sources",
			mutate:  func(c *Config) { c.LogSources = nil },
			wantErr: "log_sources",
		},
		{
			name:    "empty log source entry",
			mutate:  func(c *Config) { c.LogSources = []string{""} },
			wantErr: "log_sources[0] is required",
		},
		{
			name:    "bad repo url",
			mutate:  func(c *Config) { c.RepoURL = "not a url" },
			wantErr: "repo_url must be a valid URL",
		},
		{
			name:    "zero width",
			mutate:  func(c *Config) { c.Render.Width = 0 },
			wantErr: "render.width must be greater than 0",
		},
		{
			name:    "negative margin",
			mutate:  func(c *Config) { c.Render.Margin.Left = -1 },
			wantErr: "render.margin.left must be at least 0",
		},
		{
			name:    "radius range reversed",
			mutate:  func(c *Config) { c.Render.RadiusMin, c.Render.RadiusMax = 20, 3 },
			wantErr: "render.radius_max",
		},
		{
			name:    "margins swallow plot",
			mutate:  func(c *Config) { c.Render.Margin.Left, c.Render.Margin.Right = 600, 600 },
			wantErr: "no horizontal plotting area",
		},
		{
			name:    "unknown location",
			mutate:  func(c *Config) { c.Render.Location = "Mars/Olympus_Mons" },
			wantErr: "render.location",
		},
		{
			name:    "bad offset location",
			mutate:  func(c *Config) { c.Render.Location = "+25:00" },
			wantErr: "render.location",
		},
		{
			name:    "ftp projects source",
			mutate:  func(c *Config) { c.Projects.Source = "ftp://example.com/projects.json" },
			wantErr: "scheme must be http or https",
		},
		{
			name:   "local projects source",
			mutate: func(c *Config) { c.Projects.Source = "lib/projects.json" },
		},
		{
			name:    "server addr missing port",
			mutate:  func(c *Config) { c.Server.Addr = "localhost" },
			wantErr: "server.addr must be host:port",
		},
		{
			name:    "empty allowed origin",
			mutate:  func(c *Config) { c.Server.AllowedOrigins = []string{""} },
			wantErr: "server.allowed_origins[0] is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Locations(t *testing.T) {
	for _, name := range []string{"UTC", "Local", "local", "Z", "-05:30"} {
		name := name
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Render.Location = name
			require.NoError(t, Validate(cfg))
			assert.NotNil(t, cfg.Render.TimeLocation())
		})
	}
}

func TestValidate_ProjectsTimeoutDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Projects = ProjectsConfig{Source: "projects.json"}
	require.NoError(t, Validate(cfg))
	assert.Equal(t, DefaultProjectsTimeout, cfg.Projects.Timeout)
}
