// Package metrics provides the Prometheus registry and scrape endpoint for the
// seats client. All metrics are defined in their respective packages (client,
// cache, ratelimit, pagination) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry is the default Prometheus registry used by the seats client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Names lists every metric the module exports.
var Names = []string{
	"seats_rate_limit_hits_total",
	"seats_rate_limit_blocks_total",
	"seats_rate_limit_throttles_total",
	"seats_cache_hits_total",
	"seats_cache_misses_total",
	"seats_cache_size_bytes",
	"seats_304_responses_total",
	"seats_conditional_requests_total",
	"seats_cache_errors_total",
	"seats_requests_total",
	"seats_request_duration_seconds",
	"seats_errors_total",
	"seats_retries_total",
	"seats_retry_backoff_seconds",
	"seats_retry_exhausted_total",
	"seats_page_fetches_total",
	"seats_page_fetch_duration_seconds",
	"seats_collector_sources_total",
}

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - seats_rate_limit_hits_total (Counter): 429 responses recorded
//   - seats_rate_limit_blocks_total (Counter): Requests rejected because the block exceeded the max wait
//   - seats_rate_limit_throttles_total (Counter): Requests delayed by the rate limit gate
//
// Cache Metrics (pkg/cache):
//   - seats_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - seats_cache_misses_total (Counter): Cache misses
//   - seats_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the cache
//   - seats_304_responses_total (Counter): 304 Not Modified responses answered from cache
//   - seats_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - seats_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - seats_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - seats_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - seats_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - seats_retries_total{error_class} (Counter): Retry attempts by error class
//   - seats_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - seats_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Pagination Metrics (pkg/pagination):
//   - seats_page_fetches_total{resource, direction, outcome} (Counter): Page fetches by outcome
//   - seats_page_fetch_duration_seconds{resource} (Histogram): Page fetch duration
//   - seats_collector_sources_total{outcome} (Counter): Collector sources by outcome
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(seats_cache_hits_total[5m])) /
//   (sum(rate(seats_cache_hits_total[5m])) + sum(rate(seats_cache_misses_total[5m])))
//
//   # Pages fetched per resource
//   sum by (resource) (rate(seats_page_fetches_total{outcome="ok"}[5m]))
//
//   # Request Error Rate
//   rate(seats_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(seats_request_duration_seconds_bucket[5m]))
