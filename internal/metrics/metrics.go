// Package metrics defines Prometheus metrics for typegraph.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "typegraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_lookups_total",
			Help: "Knowledge-graph lookups by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "typegraph_lookup_duration_seconds",
			Help:    "Knowledge-graph lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	NamespaceFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "typegraph_namespace_filtered_total",
			Help: "Type results dropped for matching neither the ontology nor the resource namespace",
		},
	)

	DiscoveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typegraph_discoveries_total",
			Help: "Completed ancestry traversals by outcome",
		},
		[]string{"status"},
	)

	DiscoveredNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "typegraph_discovered_nodes",
			Help:    "Nodes in the closure returned by a traversal",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	ActiveStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "typegraph_websocket_streams",
			Help: "Active ancestry WebSocket streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		LookupsTotal, LookupDuration, NamespaceFiltered,
		DiscoveriesTotal, DiscoveredNodes, ActiveStreams,
	)
}

// RegisterPoolStats exports database pool connection counts. It must be called at most once.
func RegisterPoolStats(stat func() (acquired, idle int32)) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "typegraph_db_connections_acquired",
			Help: "Database connections currently in use",
		}, func() float64 {
			acquired, _ := stat()
			return float64(acquired)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "typegraph_db_connections_idle",
			Help: "Idle database connections",
		}, func() float64 {
			_, idle := stat()
			return float64(idle)
		}),
	)
}
