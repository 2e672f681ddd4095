package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal           *prometheus.CounterVec
	runDurationSeconds  prometheus.Histogram
	generationsTotal    *prometheus.CounterVec
	generationSeconds   *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpDurationSeconds *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlsql_pipeline_runs_total",
				Help: "Pipeline runs by outcome (query, sentinel, failure).",
			},
			[]string{"outcome"},
		),
		runDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nlsql_pipeline_run_duration_seconds",
				Help:    "End to end pipeline latency.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlsql_generations_total",
				Help: "Backend generation calls by model and result.",
			},
			[]string{"model", "result"},
		),
		generationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nlsql_generation_duration_seconds",
				Help:    "Backend generation latency by model.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"model"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlsql_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nlsql_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runsTotal,
		m.runDurationSeconds,
		m.generationsTotal,
		m.generationSeconds,
		m.httpRequestsTotal,
		m.httpDurationSeconds,
	)

	return m
}

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDurationSeconds.Observe(d.Seconds())
}

func (m *Metrics) ObserveGeneration(model string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.generationsTotal.WithLabelValues(model, result).Inc()
	m.generationSeconds.WithLabelValues(model).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.httpDurationSeconds.WithLabelValues(method, path, code).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
