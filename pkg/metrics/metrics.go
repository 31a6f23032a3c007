// Package metrics provides centralized Prometheus metrics registry for offset-page.
// All metrics are defined in their respective packages (offsetpage, httpsource,
// redissource) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by offset-page.
// Library metrics are registered via promauto in their respective packages;
// binaries register their own collectors through Registry
// (promauto.With(metrics.Registry)).
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry served by the proxy's /metrics endpoint.
var Gatherer = prometheus.DefaultGatherer

// Names lists every metric family registered by offset-page packages.
var Names = []string{
	"offsetpage_executions_total",
	"offsetpage_page_fetches_total",
	"offsetpage_page_size",
	"offsetpage_items_streamed_total",
	"offsetpage_loop_stops_total",
	"httpsource_requests_total",
	"httpsource_request_duration_seconds",
	"httpsource_errors_total",
	"redissource_fetches_total",
	"redissource_decode_errors_total",
	"offset_proxy_requests_total",
	"offset_proxy_request_duration_seconds",
}

// Metrics Documentation
//
// Adapter Metrics (pkg/offsetpage):
//   - offsetpage_executions_total{mode} (Counter): Execute calls, mode "noop" or "paged"
//   - offsetpage_page_fetches_total{outcome} (Counter): Source calls by outcome (items, empty, error)
//   - offsetpage_page_size (Histogram): Page sizes requested from sources
//   - offsetpage_items_streamed_total (Counter): Items handed to consumers
//   - offsetpage_loop_stops_total{reason} (Counter): Page loop terminations
//     (planner_done, invalid_plan, empty_page, limit_reached, error)
//
// HTTP Source Metrics (pkg/httpsource):
//   - httpsource_requests_total{status} (Counter): Upstream page requests by HTTP status
//   - httpsource_request_duration_seconds (Histogram): Upstream page request duration
//   - httpsource_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Redis Source Metrics (pkg/redissource):
//   - redissource_fetches_total{outcome} (Counter): LRANGE page loads by outcome (items, empty, error)
//   - redissource_decode_errors_total (Counter): List items that failed to decode
//
// Proxy Metrics (cmd/offset-proxy):
//   - offset_proxy_requests_total{code} (Counter): /items responses by HTTP status
//   - offset_proxy_request_duration_seconds (Histogram): /items handling duration
//
// Example Prometheus Queries:
//
//   # Average Pages per Request
//   sum(rate(offsetpage_page_fetches_total[5m])) /
//   sum(rate(offsetpage_executions_total{mode="paged"}[5m]))
//
//   # Share of Single-Item Pages (prime offsets)
//   rate(offsetpage_page_size_bucket{le="1"}[5m]) / rate(offsetpage_page_size_count[5m])
//
//   # Upstream Error Rate
//   rate(httpsource_errors_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(httpsource_request_duration_seconds_bucket[5m]))
