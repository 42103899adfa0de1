package client

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	feedInFlight prometheus.Gauge
	events       *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ircweb_requests_total",
			Help: "Requests issued against the web interface, by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ircweb_request_duration_seconds",
			Help:    "Request latency by endpoint. Feed requests include the server-side long-poll wait.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),
		feedInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ircweb_feed_requests_in_flight",
			Help: "Outstanding feed requests. Never more than one.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ircweb_events_dispatched_total",
			Help: "Events dispatched to the session, by wire tag.",
		}, []string{"tag"}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.feedInFlight, m.events)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one completed request. code is 0 for transport errors.
func (m *Metrics) ObserveRequest(endpoint string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// FeedStarted and FeedDone bracket a feed request.
func (m *Metrics) FeedStarted() {
	if m == nil {
		return
	}
	m.feedInFlight.Inc()
}

func (m *Metrics) FeedDone() {
	if m == nil {
		return
	}
	m.feedInFlight.Dec()
}

// ObserveEvent counts one dispatched event.
func (m *Metrics) ObserveEvent(tag string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(tag).Inc()
}
