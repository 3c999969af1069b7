package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// LLM metrics
	LLMCalls    *prometheus.CounterVec
	LLMDuration *prometheus.HistogramVec

	// Graph store metrics
	GraphWrites        *prometheus.CounterVec
	GraphWriteDuration *prometheus.HistogramVec

	// Business metrics
	EducateRequests *prometheus.CounterVec
	EducateDuration prometheus.Histogram
	TermsExtracted  prometheus.Histogram
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LLMCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_calls_total",
				Help:      "Total number of LLM calls by pipeline step",
			},
			[]string{"step", "status"},
		),
		LLMDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_call_duration_seconds",
				Help:      "LLM call duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"step"},
		),
		GraphWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_writes_total",
				Help:      "Total number of knowledge graph replaces",
			},
			[]string{"backend", "status"},
		),
		GraphWriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_write_duration_seconds",
				Help:      "Knowledge graph replace duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		EducateRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "educate_requests_total",
				Help:      "Total number of educate requests",
			},
			[]string{"status"},
		),
		EducateDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "educate_duration_seconds",
				Help:      "End-to-end educate duration in seconds",
				Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
		TermsExtracted: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "terms_extracted",
				Help:      "Number of terms parsed from each extraction reply",
				Buckets:   prometheus.LinearBuckets(0, 2, 10),
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.LLMCalls,
		c.LLMDuration,
		c.GraphWrites,
		c.GraphWriteDuration,
		c.EducateRequests,
		c.EducateDuration,
		c.TermsExtracted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveLLMCall records one generation call
func (c *Collector) ObserveLLMCall(step string, duration time.Duration, err error) {
	c.LLMCalls.WithLabelValues(step, status(err)).Inc()
	c.LLMDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// ObserveGraphWrite records one graph replace
func (c *Collector) ObserveGraphWrite(backend string, duration time.Duration, err error) {
	c.GraphWrites.WithLabelValues(backend, status(err)).Inc()
	c.GraphWriteDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// ObserveTerms records how many terms one extraction produced
func (c *Collector) ObserveTerms(count int) {
	c.TermsExtracted.Observe(float64(count))
}

// ObserveEducate records one end-to-end educate request
func (c *Collector) ObserveEducate(duration time.Duration, err error) {
	c.EducateRequests.WithLabelValues(status(err)).Inc()
	c.EducateDuration.Observe(duration.Seconds())
}

// ObserveHTTP records one served HTTP request
func (c *Collector) ObserveHTTP(method, route string, code int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
