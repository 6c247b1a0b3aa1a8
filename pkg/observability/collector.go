// Package observability exposes engine and HTTP measurements to Prometheus and CloudWatch
// and traces engine work with X-Ray.
package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"brainstorm/application/ports"
	pkgerrors "brainstorm/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Engine metrics
	RemoteFetches  *prometheus.CounterVec
	LayoutNodes    prometheus.Histogram
	LayoutDuration prometheus.Histogram
	FeedHandoffs   prometheus.Counter
	EventsDropped  prometheus.Counter

	// Command and query bus metrics
	BusOperations *prometheus.CounterVec
	BusDuration   *prometheus.HistogramVec
}

var _ ports.Metrics = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so tests may create many
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RemoteFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_fetches_total",
			Help:      "Graph data service calls by operation and outcome",
		}, []string{"operation", "status"}),
		LayoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_nodes_placed",
			Help:      "Nodes placed per computed layout",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		LayoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to compute a layout",
			Buckets:   prometheus.DefBuckets,
		}),
		FeedHandoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_handoffs_total",
			Help:      "Feed continuations that moved into another thread",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Domain events dropped because the publish queue was full",
		}),
		BusOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_operations_total",
			Help:      "Command and query bus counters",
		}, []string{"metric", "name"}),
		BusDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_duration_seconds",
			Help:      "Command and query handling time",
			Buckets:   prometheus.DefBuckets,
		}, []string{"metric", "name"}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.RemoteFetches,
		c.LayoutNodes,
		c.LayoutDuration,
		c.FeedHandoffs,
		c.EventsDropped,
		c.BusOperations,
		c.BusDuration,
	)
	return c
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRemoteFetch counts a data service call
func (c *Collector) RecordRemoteFetch(operation string, err error) {
	c.RemoteFetches.WithLabelValues(operation, fetchStatus(err)).Inc()
}

// RecordHandoff counts a feed handoff
func (c *Collector) RecordHandoff() {
	c.FeedHandoffs.Inc()
}

// RecordLayout observes a computed layout
func (c *Collector) RecordLayout(nodes int, duration time.Duration) {
	c.LayoutNodes.Observe(float64(nodes))
	c.LayoutDuration.Observe(duration.Seconds())
}

// RecordDroppedEvents counts events lost to a full publish queue
func (c *Collector) RecordDroppedEvents(n int) {
	c.EventsDropped.Add(float64(n))
}

// Increment implements ports.Metrics
func (c *Collector) Increment(metric, label string) {
	c.BusOperations.WithLabelValues(metric, label).Inc()
}

// StartTimer implements ports.Metrics
func (c *Collector) StartTimer(metric, label string) ports.Timer {
	return &promTimer{timer: prometheus.NewTimer(c.BusDuration.WithLabelValues(metric, label))}
}

type promTimer struct {
	timer *prometheus.Timer
}

func (t *promTimer) Stop() {
	t.timer.ObserveDuration()
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case pkgerrors.IsNotFound(err):
		return "not_found"
	case pkgerrors.IsUnavailable(err):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
