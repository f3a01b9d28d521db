package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultWidth           = 1000
	DefaultHeight          = 600
	DefaultRadiusMin       = 3
	DefaultRadiusMax       = 20
	DefaultProjectsTimeout = 10 * time.Second
	DefaultServerAddr      = "127.0.0.1:8080"
)

// Environment variable names.
const (
	EnvLogSources = "COMMITLENS_LOG_SOURCES"
	EnvRepoURL    = "COMMITLENS_REPO_URL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogSources: []string{},
		Render: RenderConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Margin:    MarginConfig{Top: 10, Right: 10, Bottom: 30, Left: 20},
			RadiusMin: DefaultRadiusMin,
			RadiusMax: DefaultRadiusMax,
		},
		Projects: ProjectsConfig{Timeout: DefaultProjectsTimeout},
		Server:   ServerConfig{Addr: DefaultServerAddr},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	// Comma-separated list replaces the file's sources
	if sources := os.Getenv(EnvLogSources); sources != "" {
		c.LogSources = nil
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.LogSources = append(c.LogSources, s)
			}
		}
	}
	if url := os.Getenv(EnvRepoURL); url != "" {
		c.RepoURL = url
	}
}
