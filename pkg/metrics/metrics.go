// Package metrics exposes Prometheus metrics for the preview server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "commitlens"

// Collector holds the server's metrics in its own registry, so several
// collectors can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	DatasetLoads    *prometheus.CounterVec
	DatasetDuration prometheus.Histogram
	Commits         prometheus.Gauge
	Lines           prometheus.Gauge
	CacheHits       prometheus.Counter
}

// NewCollector creates and registers every metric.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DatasetLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "dataset_loads_total",
				Help:      "Dataset loads by result",
			},
			[]string{"result"},
		),
		DatasetDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "dataset_load_duration_seconds",
				Help:      "Time to parse and aggregate the log sources",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Commits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "dataset_commits",
				Help:      "Commits in the current dataset",
			},
		),
		Lines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "dataset_lines",
				Help:      "Line records in the current dataset",
			},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_hits_total",
				Help:      "Log files served from the parsed-log cache",
			},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.DatasetLoads,
		c.DatasetDuration,
		c.Commits,
		c.Lines,
		c.CacheHits,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the scrape endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveLoad records one dataset load.
func (c *Collector) ObserveLoad(d time.Duration, commits, lines, cacheHits int, err error) {
	if err != nil {
		c.DatasetLoads.WithLabelValues("error").Inc()
		return
	}
	c.DatasetLoads.WithLabelValues("ok").Inc()
	c.DatasetDuration.Observe(d.Seconds())
	c.Commits.Set(float64(commits))
	c.Lines.Set(float64(lines))
	c.CacheHits.Add(float64(cacheHits))
}

// Middleware records request counts and latency by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
