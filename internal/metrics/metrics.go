// Package metrics exposes Prometheus collectors for the HTTP API and the
// diet tracking events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dietprogram"

// Metrics holds an isolated registry so tests can build their own.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	rateLimited    prometheus.Counter
	mealsRecorded  *prometheus.CounterVec
	progressSaved  prometheus.Counter
	sessionsPurged prometheus.Counter
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		mealsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diet",
			Name:      "meals_recorded_total",
			Help:      "Meals recorded, by meal type.",
		}, []string{"meal_type"}),
		progressSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diet",
			Name:      "progress_entries_saved_total",
			Help:      "Progress entries created or replaced.",
		}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "sessions_purged_total",
			Help:      "Expired sessions removed by the cleanup job.",
		}),
	}
	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.rateLimited,
		m.mealsRecorded,
		m.progressSaved,
		m.sessionsPurged,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted increments the in-flight gauge and returns the func that
// records the finished request.
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	start := time.Now()
	m.httpInFlight.Inc()
	return func(method, route string, status int) {
		m.httpInFlight.Dec()
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

// MealRecorded counts a stored meal.
func (m *Metrics) MealRecorded(mealType string) {
	m.mealsRecorded.WithLabelValues(mealType).Inc()
}

// ProgressSaved counts an upserted progress entry.
func (m *Metrics) ProgressSaved() {
	m.progressSaved.Inc()
}

// SessionsPurged adds n removed sessions.
func (m *Metrics) SessionsPurged(n int64) {
	if n > 0 {
		m.sessionsPurged.Add(float64(n))
	}
}
