// Package controller owns the dashboard: it loads the dataset, holds the
// selection state and redraws the views in response to user gestures.
package controller

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/cache"
	"github.com/ccollicutt/commitlens/pkg/commits"
	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/loader"
	"github.com/ccollicutt/commitlens/pkg/render"
)

// Dataset is the immutable result of loading every log source.
type Dataset struct {
	Records   []loader.LineRecord
	Commits   []*commits.Commit
	Sources   []string
	LoadedAt  time.Time
	Duration  time.Duration
	CacheHits int
}

// IsEmpty reports a dataset without commits.
func (d *Dataset) IsEmpty() bool {
	return len(d.Commits) == 0
}

// Open expands the configured log sources, parses them (through the cache
// when one is configured) and aggregates commits. A malformed row in any
// file fails the whole load.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dataset, error) {
	start := time.Now()

	files, err := loader.ExpandGlobs(cfg.LogSources)
	if err != nil {
		return nil, fmt.Errorf("expanding log sources: %w", err)
	}

	var store *cache.Store
	if cfg.Cache.Path != "" {
		store, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			logger.Warn("cache unavailable, parsing logs directly", zap.Error(err))
		} else {
			defer store.Close()
		}
	}

	ds := &Dataset{Sources: files}
	for _, file := range files {
		records, hit, err := loadFile(ctx, file, store, logger)
		if err != nil {
			return nil, err
		}
		if hit {
			ds.CacheHits++
		}
		ds.Records = append(ds.Records, records...)
	}

	if loc := cfg.Render.TimeLocation(); loc != nil {
		for i := range ds.Records {
			ds.Records[i].Datetime = ds.Records[i].Datetime.In(loc)
		}
	}

	ds.Commits = commits.Aggregate(ds.Records, commits.WithRepoURL(cfg.RepoURL))
	ds.LoadedAt = time.Now()
	ds.Duration = ds.LoadedAt.Sub(start)

	logger.Info("dataset loaded",
		zap.Int("files", len(files)),
		zap.Int("lines", len(ds.Records)),
		zap.Int("commits", len(ds.Commits)),
		zap.Int("cache_hits", ds.CacheHits),
		zap.Duration("duration", ds.Duration))
	return ds, nil
}

func loadFile(ctx context.Context, file string, store *cache.Store, logger *zap.Logger) ([]loader.LineRecord, bool, error) {
	var digest string
	if store != nil {
		d, err := cache.Digest(file)
		if err != nil {
			return nil, false, err
		}
		digest = d
		records, ok, err := store.Get(digest)
		if err != nil {
			logger.Warn("cache read failed", zap.String("file", file), zap.Error(err))
		} else if ok {
			for i := range records {
				records[i].Source = file
			}
			logger.Debug("cache hit", zap.String("file", file), zap.Int("lines", len(records)))
			return records, true, nil
		}
	}

	records, err := loader.LoadFiles(ctx, []string{file})
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", file, err)
	}

	if store != nil {
		if err := store.Put(digest, records); err != nil {
			logger.Warn("cache write failed", zap.String("file", file), zap.Error(err))
		}
	}
	return records, false, nil
}

// Geometry converts the render configuration into plot geometry.
func Geometry(rc config.RenderConfig) render.Geometry {
	return render.Geometry{
		Width:  rc.Width,
		Height: rc.Height,
		Margin: render.Margin{
			Top:    rc.Margin.Top,
			Right:  rc.Margin.Right,
			Bottom: rc.Margin.Bottom,
			Left:   rc.Margin.Left,
		},
		RadiusMin: rc.RadiusMin,
		RadiusMax: rc.RadiusMax,
	}
}
