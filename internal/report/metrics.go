package report

import "github.com/prometheus/client_golang/prometheus"

var (
	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_batch_duration_seconds",
			Help:    "Time taken to analyze a restaurant inventory batch",
			Buckets: prometheus.DefBuckets,
		},
	)

	itemsAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_items_analyzed_total",
			Help: "Items run through the optimization pipeline, by outcome",
		},
		[]string{"outcome"},
	)

	recommendationsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_recommendations_total",
			Help: "Recommendations issued, by action and urgency",
		},
		[]string{"action", "urgency"},
	)
)

func init() {
	prometheus.MustRegister(batchDuration, itemsAnalyzed, recommendationsIssued)
}
