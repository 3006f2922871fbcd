package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for page fetching.
var (
	seatsPageFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seats_page_fetches_total",
		Help: "Total page fetches by resource, direction and outcome",
	}, []string{"resource", "direction", "outcome"})

	seatsPageFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seats_page_fetch_duration_seconds",
		Help:    "Page fetch duration in seconds by resource",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"resource"})

	seatsCollectorSourcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seats_collector_sources_total",
		Help: "Total collector sources by outcome",
	}, []string{"outcome"})
)

// Fetch outcomes.
const (
	outcomeOK        = "ok"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
	outcomeStatus    = "status"
	outcomeMalformed = "malformed"
)
