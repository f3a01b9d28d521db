package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/loader"
	"github.com/ccollicutt/commitlens/pkg/server"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Addr  string
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve <config-file>",
		Short: "Serve the dashboard over HTTP",
		Long: `Load the logs once and serve the dashboard until interrupted.

Endpoints:
  /            dashboard page
  /api/state   dashboard state as JSON
  /health      load status
  /metrics     Prometheus metrics

/ and /api/state accept the query parameters progress, step, brush
(x0,y0,x1,y1), hover, search and year. Every request renders its own view.

With --watch (or server.watch in the config) the logs are reloaded when one
of them changes; a failed reload keeps serving the previous data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload when a log source changes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string, opts *ServeOptions) error {
	configPath := args[0]
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	srv := server.New(cfg, configPath, server.WithLogger(Logger))
	if err := srv.Reload(ctx); err != nil {
		return err
	}

	if opts.Watch || cfg.Server.Watch {
		if err := startWatcher(ctx, srv, cfg); err != nil {
			return err
		}
	}

	return srv.Run(ctx)
}

func startWatcher(ctx context.Context, srv *server.Server, cfg *config.Config) error {
	files, err := loader.ExpandGlobs(cfg.LogSources)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}
	w, err := server.NewWatcher(srv, files, Logger)
	if err != nil {
		return err
	}
	w.Start(ctx)
	go func() {
		<-ctx.Done()
		if err := w.Close(); err != nil {
			Logger.Warn("closing watcher", zap.Error(err))
		}
	}()
	Logger.Info("watching log sources", zap.Int("files", len(files)))
	return nil
}
