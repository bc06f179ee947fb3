package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Projection metrics. Purity makes the engine trivially cacheable, so the
// counter/duration pair is enough to spot callers that skip debouncing.
var (
	projectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifeplan_projections_total",
		Help: "Number of projection requests, by outcome.",
	}, []string{"outcome"})

	projectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lifeplan_projection_duration_seconds",
		Help:    "Wall time of a single projection run.",
		Buckets: prometheus.DefBuckets,
	})
)
