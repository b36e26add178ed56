// Package metrics exposes Prometheus metrics for the gateway, caches and server.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "placefolk"

// Registry owns a Prometheus registry and the metric sets registered on it.
type Registry struct {
	prometheus *prometheus.Registry

	Gateway  *GatewayMetrics
	Cache    *CacheMetrics
	Sessions *SessionMetrics
}

// NewRegistry creates a registry with runtime collectors and all placefolk metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		prometheus: reg,
		Gateway:    newGatewayMetrics(),
		Cache:      newCacheMetrics(),
		Sessions:   newSessionMetrics(),
	}
	reg.MustRegister(r.Gateway.collectors()...)
	reg.MustRegister(r.Cache.collectors()...)
	reg.MustRegister(r.Sessions.collectors()...)
	return r
}

// Prometheus returns the underlying Prometheus registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.prometheus
}

// Register adds an extra collector. Registering the same collector twice is not an error.
func (r *Registry) Register(c prometheus.Collector) error {
	if err := r.prometheus.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheus, promhttp.HandlerOpts{})
}

// GatewayMetrics tracks requests to the remote knowledge base.
type GatewayMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newGatewayMetrics() *GatewayMetrics {
	return &GatewayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of knowledge-base requests by kind and outcome",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Knowledge-base request latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
	}
}

func (m *GatewayMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.duration}
}

// Observe records one request of the given kind that started at start.
func (m *GatewayMetrics) Observe(kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Requests returns the counter for kind and outcome.
func (m *GatewayMetrics) Requests(kind, outcome string) prometheus.Counter {
	return m.requests.WithLabelValues(kind, outcome)
}

// CacheMetrics tracks cache activity, labeled by cache name.
type CacheMetrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	sets      *prometheus.CounterVec
	evictions *prometheus.CounterVec
	size      *prometheus.GaugeVec
}

func newCacheMetrics() *CacheMetrics {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}, []string{"cache"})
	}
	return &CacheMetrics{
		hits:      counter("hits_total", "Total number of cache hits"),
		misses:    counter("misses_total", "Total number of cache misses"),
		sets:      counter("sets_total", "Total number of cache set operations"),
		evictions: counter("evictions_total", "Total number of cache evictions"),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "size",
			Help:      "Current number of entries in cache",
		}, []string{"cache"}),
	}
}

func (m *CacheMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.hits, m.misses, m.sets, m.evictions, m.size}
}

// Hit records a cache hit.
func (m *CacheMetrics) Hit(cache string) { m.hits.WithLabelValues(cache).Inc() }

// Miss records a cache miss.
func (m *CacheMetrics) Miss(cache string) { m.misses.WithLabelValues(cache).Inc() }

// Set records a stored entry and the new size.
func (m *CacheMetrics) Set(cache string, size int) {
	m.sets.WithLabelValues(cache).Inc()
	m.size.WithLabelValues(cache).Set(float64(size))
}

// Resize records the size after a removal.
func (m *CacheMetrics) Resize(cache string, size int) {
	m.size.WithLabelValues(cache).Set(float64(size))
}

// Evict records an eviction.
func (m *CacheMetrics) Evict(cache string) { m.evictions.WithLabelValues(cache).Inc() }

// Hits returns the hit counter for cache.
func (m *CacheMetrics) Hits(cache string) prometheus.Counter { return m.hits.WithLabelValues(cache) }

// Misses returns the miss counter for cache.
func (m *CacheMetrics) Misses(cache string) prometheus.Counter {
	return m.misses.WithLabelValues(cache)
}

// Size returns the size gauge for cache.
func (m *CacheMetrics) Size(cache string) prometheus.Gauge { return m.size.WithLabelValues(cache) }

// SessionMetrics tracks server sessions and search outcomes.
type SessionMetrics struct {
	active   prometheus.Gauge
	searches *prometheus.CounterVec
}

func newSessionMetrics() *SessionMetrics {
	return &SessionMetrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "sessions",
			Help:      "Current number of live sessions",
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "searches_total",
			Help:      "Total number of searches by outcome",
		}, []string{"outcome"}),
	}
}

func (m *SessionMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.active, m.searches}
}

// SetActive sets the live session count.
func (m *SessionMetrics) SetActive(n int) { m.active.Set(float64(n)) }

// Search records a finished search.
func (m *SessionMetrics) Search(outcome string) { m.searches.WithLabelValues(outcome).Inc() }

// Searches returns the counter for outcome.
func (m *SessionMetrics) Searches(outcome string) prometheus.Counter {
	return m.searches.WithLabelValues(outcome)
}

// Active returns the session gauge.
func (m *SessionMetrics) Active() prometheus.Gauge { return m.active }
