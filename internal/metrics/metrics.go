package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "monke"

// Metrics owns a private registry. All recording methods are safe on a nil
// receiver so tests and tools can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	fetchFailures   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec

	upstreamResponses *prometheus.CounterVec
	snapshots         *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "match_cache", Name: "hits_total",
			Help: "Match records served from the store.",
		}, []string{"game"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "match_cache", Name: "misses_total",
			Help: "Match ids not found in the store.",
		}, []string{"game"}),
		fetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "match_cache", Name: "fetch_failures_total",
			Help: "Missing match ids the upstream could not serve.",
		}, []string{"game"}),
		persistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "match_cache", Name: "persist_failures_total",
			Help: "Batch writes of fetched records that failed.",
		}, []string{"game"}),
		upstreamResponses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "riot", Name: "responses_total",
			Help: "Riot API responses by status code.",
		}, []string{"status"}),
		snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "snapshots_total",
			Help: "Rank snapshot attempts by result.",
		}, []string{"game", "result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by path and status.",
		}, []string{"path", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) CacheLookup(game string, hits, misses int) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(game).Add(float64(hits))
	m.cacheMisses.WithLabelValues(game).Add(float64(misses))
}

func (m *Metrics) FetchFailures(game string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.fetchFailures.WithLabelValues(game).Add(float64(n))
}

func (m *Metrics) PersistFailure(game string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(game).Inc()
}

func (m *Metrics) UpstreamResponse(status int) {
	if m == nil {
		return
	}
	m.upstreamResponses.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) Snapshot(game, result string) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(game, result).Inc()
}

func (m *Metrics) HTTPRequest(path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

var Module = fx.Provide(New)
