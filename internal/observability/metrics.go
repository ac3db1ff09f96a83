// Package observability holds the Prometheus metrics of the GraphQL client.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the client metrics and the registry they are registered
// on. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
}

// NewCollector creates a collector with its own registry so that several
// collectors (one per test, say) never collide on registration.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graphql_request_duration_seconds",
				Help:      "Duration of upstream GraphQL HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "api_version"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphql_requests_total",
				Help:      "Upstream GraphQL HTTP requests by status.",
			},
			[]string{"operation", "api_version", "status"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Queries answered from the normalized cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache-first queries that went to the network.",
		}),
	}
	c.registry.MustRegister(c.RequestDuration, c.Requests, c.CacheHits, c.CacheMisses)
	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveRequest records one upstream request. statusCode is 0 when the
// request failed before a response arrived.
func (c *Collector) ObserveRequest(operation, apiVersion string, statusCode int, d time.Duration) {
	if c == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	c.RequestDuration.WithLabelValues(operation, apiVersion).Observe(d.Seconds())
	c.Requests.WithLabelValues(operation, apiVersion, status).Inc()
}

// CacheHit counts a query answered from cache.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.CacheHits.Inc()
}

// CacheMiss counts a cache-first query that needed the network.
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.CacheMisses.Inc()
}
