package redissource

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for Redis list pages.
var (
	// FetchesTotal counts LRANGE page loads by outcome (items, empty, error).
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redissource_fetches_total",
		Help: "Total Redis list page loads by outcome",
	}, []string{"outcome"})

	// DecodeErrors counts list elements that failed to decode.
	DecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redissource_decode_errors_total",
		Help: "Total Redis list items that failed to decode",
	})
)
