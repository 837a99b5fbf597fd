// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kanso_kcal"

// Refresh outcomes recorded by the stats worker.
const (
	RefreshPersisted = "persisted"
	RefreshUnchanged = "unchanged"
	RefreshFailed    = "error"
)

type Metrics struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	throttled    prometheus.Counter
	jobsDropped  prometheus.Counter
	refreshes    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

var (
	once     sync.Once
	registry *Metrics
)

// Default returns the lazily registered collectors on the default registry.
func Default() *Metrics {
	once.Do(func() {
		registry = &Metrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status code.",
			}, []string{"method", "route", "status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route"}),
			throttled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "throttled_total",
				Help:      "Requests rejected by the rate limiter.",
			}),
			jobsDropped: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stats",
				Name:      "jobs_dropped_total",
				Help:      "Stats refresh jobs dropped because the queue was full.",
			}),
			refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stats",
				Name:      "refreshes_total",
				Help:      "Weekly snapshot refreshes by outcome.",
			}, []string{"outcome"}),
			cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Snapshot cache lookups by result.",
			}, []string{"result"}),
		}
		prometheus.MustRegister(
			registry.requests,
			registry.latency,
			registry.throttled,
			registry.jobsDropped,
			registry.refreshes,
			registry.cacheLookups,
		)
	})
	return registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) Throttled() {
	if m == nil {
		return
	}
	m.throttled.Inc()
}

func (m *Metrics) JobDropped() {
	if m == nil {
		return
	}
	m.jobsDropped.Inc()
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
