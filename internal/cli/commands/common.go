package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/fetch"
	"github.com/ccollicutt/commitlens/pkg/projects"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openDataset loads the configuration and every log source it names.
func openDataset(ctx context.Context, configPath string) (*config.Config, *controller.Dataset, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	ds, err := controller.Open(ctx, cfg, Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ds, nil
}

// dashboardOptions sizes the plot from configuration.
func dashboardOptions(cfg *config.Config) []controller.Option {
	return []controller.Option{
		controller.WithGeometry(controller.Geometry(cfg.Render)),
		controller.WithLogger(Logger),
	}
}

// loadBrowser fetches the projects list and applies search and year. It is
// nil when no projects source is configured or the fetch failed.
func loadBrowser(ctx context.Context, cfg *config.Config, search, year string) *projects.Browser {
	list := projects.Load(ctx, fetch.NewClient(), cfg.Projects.Source, cfg.Projects.Timeout, Logger)
	if list == nil {
		return nil
	}
	b := projects.NewBrowser(list)
	b.Search(search)
	if year != "" && !b.SelectYear(year) {
		Logger.Warn("no projects for year", zap.String("year", year))
	}
	return b
}
