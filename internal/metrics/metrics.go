// Package metrics holds the prometheus instruments of a glossary client.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resync results.
const (
	ResultApplied = "applied"
	ResultStale   = "stale"
	ResultError   = "error"
)

// Mutation results.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
)

// Collector holds all Prometheus metrics for the client. Each collector owns
// its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	Resyncs        *prometheus.CounterVec
	ResyncDuration prometheus.Histogram
	Mutations      *prometheus.CounterVec
	Terms          prometheus.Gauge
	GraphNodes     prometheus.Gauge
	GraphEdges     prometheus.Gauge
	GraphWarnings  prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Resyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resyncs_total",
			Help:      "Term store reloads by result (applied, stale, error).",
		}, []string{"result"}),
		ResyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resync_duration_seconds",
			Help:      "Duration of a full reload and projection.",
			Buckets:   prometheus.DefBuckets,
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Submitted mutations by operation and result.",
		}, []string{"op", "result"}),
		Terms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "terms",
			Help:      "Terms in the last applied snapshot.",
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the current graph projection.",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges in the current graph projection.",
		}),
		GraphWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_warnings",
			Help:      "Disagreements between the local and service graphs.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	c.registry.MustRegister(
		c.Resyncs,
		c.ResyncDuration,
		c.Mutations,
		c.Terms,
		c.GraphNodes,
		c.GraphEdges,
		c.GraphWarnings,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveResync records one reload attempt.
func (c *Collector) ObserveResync(result string, d time.Duration) {
	if c == nil {
		return
	}
	c.Resyncs.WithLabelValues(result).Inc()
	c.ResyncDuration.Observe(d.Seconds())
}

// SetSnapshot records the size of an applied snapshot.
func (c *Collector) SetSnapshot(terms, nodes, edges, warnings int) {
	if c == nil {
		return
	}
	c.Terms.Set(float64(terms))
	c.GraphNodes.Set(float64(nodes))
	c.GraphEdges.Set(float64(edges))
	c.GraphWarnings.Set(float64(warnings))
}

// ObserveMutation records one add, update or delete attempt.
func (c *Collector) ObserveMutation(op, result string) {
	if c == nil {
		return
	}
	c.Mutations.WithLabelValues(op, result).Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
