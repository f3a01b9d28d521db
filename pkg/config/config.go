package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/commitlens/pkg/loader"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and resolves the render location.
func Validate(cfg *Config) error {
	if len(cfg.LogSources) == 0 {
		return errors.New("log_sources: at least one log source is required")
	}

	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	loc, err := resolveLocation(cfg.Render.Location)
	if err != nil {
		return fmt.Errorf("render.location: %w", err)
	}
	cfg.Render.location = loc

	if usable := cfg.Render.Width - cfg.Render.Margin.Left - cfg.Render.Margin.Right; usable <= 0 {
		return fmt.Errorf("render: margins leave no horizontal plotting area (%g px)", usable)
	}
	if usable := cfg.Render.Height - cfg.Render.Margin.Top - cfg.Render.Margin.Bottom; usable <= 0 {
		return fmt.Errorf("render: margins leave no vertical plotting area (%g px)", usable)
	}

	if cfg.Projects.Source != "" {
		if err := validateSource(cfg.Projects.Source); err != nil {
			return fmt.Errorf("projects.source: %w", err)
		}
		if cfg.Projects.Timeout == 0 {
			cfg.Projects.Timeout = DefaultProjectsTimeout
		}
	}

	return nil
}

func resolveLocation(name string) (*time.Location, error) {
	switch {
	case name == "":
		return nil, nil
	case strings.EqualFold(name, "local"):
		return time.Local, nil
	case strings.HasPrefix(name, "+"), strings.HasPrefix(name, "-"), name == "Z":
		return loader.ParseOffset(name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown location %q: %w", name, err)
	}
	return loc, nil
}

// validateSource accepts a local path or an http(s) URL with a host.
func validateSource(src string) error {
	if !strings.Contains(src, "://") {
		return nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}
	return nil
}

// formatValidationError turns validator output into one readable error.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	// Drop the root struct name: "Config.render.width" -> "render.width".
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}
