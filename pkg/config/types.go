// Package config provides configuration loading and validation for commitlens.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogSources are loc.csv files, globs or directories, read in order.
	LogSources []string `yaml:"log_sources" validate:"required,min=1,dive,required"`

	// RepoURL links commits to <repo_url>/commit/<id> when set.
	RepoURL string `yaml:"repo_url,omitempty" validate:"omitempty,url"`

	Render   RenderConfig   `yaml:"render"`
	Projects ProjectsConfig `yaml:"projects,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
}

// RenderConfig sizes the scatter plot.
type RenderConfig struct {
	Width  float64      `yaml:"width" validate:"gt=0"`
	Height float64      `yaml:"height" validate:"gt=0"`
	Margin MarginConfig `yaml:"margin"`

	// RadiusMin and RadiusMax bound point radii. One range is used for
	// every draw.
	RadiusMin float64 `yaml:"radius_min" validate:"gt=0"`
	RadiusMax float64 `yaml:"radius_max" validate:"gtefield=RadiusMin"`

	// Location reads hour of day in a fixed zone: "UTC", "Local", an IANA
	// name or an offset such as "+02:00". Empty keeps each commit's own
	// recorded offset.
	Location string `yaml:"location,omitempty"`

	location *time.Location
}

// TimeLocation returns the resolved Location, nil when unset.
func (r *RenderConfig) TimeLocation() *time.Location {
	return r.location
}

// MarginConfig is the space around the plotting area in pixels.
type MarginConfig struct {
	Top    float64 `yaml:"top" validate:"gte=0"`
	Right  float64 `yaml:"right" validate:"gte=0"`
	Bottom float64 `yaml:"bottom" validate:"gte=0"`
	Left   float64 `yaml:"left" validate:"gte=0"`
}

// ProjectsConfig points at the optional projects list.
type ProjectsConfig struct {
	// Source is a path or http(s) URL of projects.json. Empty disables it.
	Source string `yaml:"source,omitempty"`

	// Timeout bounds a URL fetch.
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// CacheConfig controls the parsed-log cache.
type CacheConfig struct {
	// Path of the bbolt database. Empty disables caching.
	Path string `yaml:"path,omitempty"`
}

// ServerConfig configures `commitlens serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" validate:"dive,required"`

	// Watch reloads the dataset when a log source changes.
	Watch bool `yaml:"watch,omitempty"`
}
