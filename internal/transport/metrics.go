package transport

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	projects  prometheus.Gauge
	holidays  prometheus.Gauge
	imported  prometheus.Counter
	conflicts prometheus.Counter
}

// NewMetrics creates collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prodsched",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "prodsched",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		projects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "prodsched",
			Name:      "projects",
			Help:      "Projects in the last loaded document.",
		}),
		holidays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "prodsched",
			Name:      "holidays",
			Help:      "Dates in the active holiday set.",
		}),
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prodsched",
			Name:      "imported_projects_total",
			Help:      "Projects added through spreadsheet import.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prodsched",
			Name:      "version_conflicts_total",
			Help:      "Writes rejected because of a stale document version.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.projects, m.holidays, m.imported, m.conflicts,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetHolidayCount records the size of the active holiday set.
func (m *Metrics) SetHolidayCount(n int) {
	if m != nil {
		m.holidays.Set(float64(n))
	}
}

func (m *Metrics) setProjectCount(n int) {
	if m != nil {
		m.projects.Set(float64(n))
	}
}

func (m *Metrics) addImported(n int) {
	if m != nil {
		m.imported.Add(float64(n))
	}
}

func (m *Metrics) incConflicts() {
	if m != nil {
		m.conflicts.Inc()
	}
}

// Middleware records request counts and latency keyed by chi route pattern
// and logs each request.
func (m *Metrics) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			if m != nil {
				m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
				m.latency.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
			}
			logger.Debug("http request",
				"method", r.Method,
				"route", route,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", RequestIDFromContext(r.Context()))
		})
	}
}
