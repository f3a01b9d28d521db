// Package server serves the dashboard over HTTP and reloads it when the
// log sources change.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ccollicutt/commitlens/pkg/config"
	"github.com/ccollicutt/commitlens/pkg/controller"
	"github.com/ccollicutt/commitlens/pkg/fetch"
	"github.com/ccollicutt/commitlens/pkg/metrics"
	"github.com/ccollicutt/commitlens/pkg/projects"
)

const shutdownTimeout = 10 * time.Second

// Loader produces a dataset from configuration. controller.Open is the
// production loader.
type Loader func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*controller.Dataset, error)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLoader replaces controller.Open.
func WithLoader(l Loader) Option {
	return func(s *Server) {
		s.load = l
	}
}

// WithFetcher replaces the projects fetcher.
func WithFetcher(f projects.Fetcher) Option {
	return func(s *Server) {
		s.fetcher = f
	}
}

// WithCollector sets the metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// Server holds the current dataset and answers dashboard requests. Every
// request renders on its own dashboard, so the only shared state is the
// dataset pointer, swapped whole on reload.
type Server struct {
	cfg        *config.Config
	configFile string
	logger     *zap.Logger
	metrics    *metrics.Collector
	fetcher    projects.Fetcher
	load       Loader

	mu       sync.RWMutex
	dataset  *controller.Dataset
	projects []projects.Project
}

// New creates a server for cfg. Call Reload before serving.
func New(cfg *config.Config, configFile string, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg,
		configFile: configFile,
		logger:     zap.NewNop(),
		fetcher:    fetch.NewClient(),
		load:       controller.Open,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector()
	}
	return s
}

// Reload loads the dataset and the projects list. On failure the previous
// dataset keeps serving.
func (s *Server) Reload(ctx context.Context) error {
	ds, err := s.load(ctx, s.cfg, s.logger)
	if err != nil {
		s.metrics.ObserveLoad(0, 0, 0, 0, err)
		return fmt.Errorf("loading dataset: %w", err)
	}
	s.metrics.ObserveLoad(ds.Duration, len(ds.Commits), len(ds.Records), ds.CacheHits, nil)

	list := projects.Load(ctx, s.fetcher, s.cfg.Projects.Source, s.cfg.Projects.Timeout, s.logger)

	s.mu.Lock()
	s.dataset = ds
	s.projects = list
	s.mu.Unlock()
	return nil
}

// Dataset returns the dataset currently served.
func (s *Server) Dataset() *controller.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

func (s *Server) snapshot() (*controller.Dataset, []projects.Project) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset, s.projects
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.metrics.Middleware)
	router.Use(requestLogger(s.logger))

	if len(s.cfg.Server.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/", s.handleDashboard)
	router.Get("/api/state", s.handleState)
	router.Get("/health", s.handleHealth)
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
