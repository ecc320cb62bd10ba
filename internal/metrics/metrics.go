// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eticket"

// Step outcomes recorded by StepSubmitted.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics owns a private registry so tests and multiple servers never clash
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	steps         *prometheus.CounterVec
	fieldFailures *prometheus.CounterVec
	declarations  prometheus.Counter
	draftsCreated prometheus.Counter
}

// New registers every collector, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_submissions_total",
			Help:      "Posted wizard steps by step id and outcome.",
		}, []string{"step", "outcome"}),
		fieldFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_validation_failures_total",
			Help:      "Validation failures by canonical field path.",
		}, []string{"field"}),
		declarations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "declarations_submitted_total",
			Help:      "Declarations submitted successfully.",
		}),
		draftsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_created_total",
			Help:      "Draft declarations started.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.steps,
		m.fieldFailures,
		m.declarations,
		m.draftsCreated,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// StepSubmitted records a posted step and its per-field failures.
func (m *Metrics) StepSubmitted(stepID string, failures []string) {
	if len(failures) == 0 {
		m.steps.WithLabelValues(stepID, OutcomeValid).Inc()
		return
	}
	m.steps.WithLabelValues(stepID, OutcomeInvalid).Inc()
	for _, field := range failures {
		m.fieldFailures.WithLabelValues(field).Inc()
	}
}

// DeclarationSubmitted counts a completed declaration.
func (m *Metrics) DeclarationSubmitted() {
	m.declarations.Inc()
}

// DraftCreated counts a new draft.
func (m *Metrics) DraftCreated() {
	m.draftsCreated.Inc()
}
