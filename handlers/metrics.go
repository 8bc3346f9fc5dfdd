package handlers

import (
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	documentsSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_documents_saved_total",
		Help: "Documents saved, by kind.",
	}, []string{"kind"})

	documentSaveRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_document_save_rejected_total",
		Help: "Document saves rejected, by kind and reason.",
	}, []string{"kind", "reason"})

	documentsDeleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_documents_deleted_total",
		Help: "Documents deleted, by kind.",
	}, []string{"kind"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_http_request_duration_seconds",
		Help:    "Duration of HTTP requests, by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Metrics owns the registry the back-office collectors are exposed from.
type Metrics struct {
	registry *prometheus.Registry
}

// NewMetrics registers the back-office collectors plus the Go and process
// collectors on a fresh registry.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		documentsSaved,
		documentSaveRejected,
		documentsDeleted,
		requestDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &Metrics{registry: reg}, nil
}

// HandleMetrics serves the Prometheus exposition format.
func (m *Metrics) HandleMetrics() func(*core.RequestEvent) error {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(e *core.RequestEvent) error {
		h.ServeHTTP(e.Response, e.Request)
		return nil
	}
}

// Middleware records the duration of every request. Routes are labelled by
// their pattern so ids do not explode the label set.
func (m *Metrics) Middleware() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		route := e.Request.Pattern
		if route == "" {
			route = "unmatched"
		}
		status := e.Status()
		if status == 0 {
			status = 200
		}
		requestDuration.WithLabelValues(e.Request.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}
