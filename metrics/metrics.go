package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	QuoteRequests *prometheus.CounterVec
	QuoteDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		QuoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_requests_total",
			Help: "Quote provider calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		QuoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quote_request_duration_seconds",
			Help:    "Quote provider call latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.QuoteRequests, m.QuoteDuration)
	return m
}

// ObserveQuote records one quote provider call. Safe on a nil receiver.
func (m *Metrics) ObserveQuote(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.QuoteRequests.WithLabelValues(operation, outcome).Inc()
	m.QuoteDuration.WithLabelValues(operation).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
