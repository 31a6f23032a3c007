package offsetpage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stop reasons of the page loop.
const (
	stopPlannerDone = "planner_done"
	stopInvalidPlan = "invalid_plan"
	stopEmptyPage   = "empty_page"
	stopLimit       = "limit_reached"
	stopError       = "error"
)

var (
	// Executions tracks Execute calls by mode ("noop" for the all-zero
	// request, "paged" otherwise)
	Executions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offsetpage_executions_total",
			Help: "Total number of offset adapter executions",
		},
		[]string{"mode"},
	)

	// PageFetches tracks source calls by outcome ("items", "empty", "error")
	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offsetpage_page_fetches_total",
			Help: "Total number of page fetches issued to sources",
		},
		[]string{"outcome"},
	)

	// PageSize tracks the page sizes requested from sources
	PageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "offsetpage_page_size",
			Help:    "Page sizes requested from sources",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	// ItemsStreamed tracks items handed to consumers
	ItemsStreamed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offsetpage_items_streamed_total",
			Help: "Total number of items streamed out of offset results",
		},
	)

	// LoopStops tracks why page loops ended
	LoopStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offsetpage_loop_stops_total",
			Help: "Total number of page loop terminations by reason",
		},
		[]string{"reason"},
	)
)
