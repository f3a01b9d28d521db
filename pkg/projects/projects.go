// Package projects groups a portfolio's projects by year and filters them
// by search text and selected year.
package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/fetch"
)

// Year accepts both "2024" and 2024 in JSON and is kept as text.
type Year string

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("year: %w", err)
	}
	*y = Year(n.String())
	return nil
}

// Int returns the numeric year, 0 when the text is not a number.
func (y Year) Int() int {
	n, _ := strconv.Atoi(strings.TrimSpace(string(y)))
	return n
}

// Project is one entry of projects.json.
type Project struct {
	Title       string `json:"title"`
	Year        Year   `json:"year"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// searchText is every field joined by newlines, lower-cased.
func (p Project) searchText() string {
	return strings.ToLower(strings.Join([]string{p.Title, string(p.Year), p.Image, p.Description}, "\n"))
}

// Parse validates and decodes a projects document.
func Parse(data []byte) ([]Project, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var out []Project
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding projects: %w", err)
	}
	return out, nil
}

// Fetcher retrieves a document. *fetch.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, opts fetch.Options) *fetch.Response
}

// Load fetches and parses the projects list. Failures are logged and give
// an empty list, so callers carry on without projects.
func Load(ctx context.Context, f Fetcher, source string, timeout time.Duration, logger *zap.Logger) []Project {
	if source == "" {
		return nil
	}
	resp := f.Get(ctx, fetch.Options{Source: source, Timeout: timeout})
	if !resp.Success() {
		logger.Warn("fetching projects failed",
			zap.String("source", source),
			zap.Int("status", resp.StatusCode),
			zap.Error(resp.Error))
		return nil
	}
	list, err := Parse(resp.Body)
	if err != nil {
		logger.Warn("projects document rejected", zap.String("source", source), zap.Error(err))
		return nil
	}
	logger.Debug("projects loaded",
		zap.String("source", source),
		zap.Int("count", len(list)),
		zap.Duration("duration", resp.Duration))
	return list
}
