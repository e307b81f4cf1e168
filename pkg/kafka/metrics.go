package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Producer metrics, labelled by topic and outcome.
var (
	publishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drinks_events_published_total",
			Help: "Events handed to Kafka by topic and outcome.",
		},
		[]string{"topic", "outcome"},
	)

	publishSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drinks_events_publish_duration_seconds",
			Help:    "Time spent writing one event to Kafka.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"topic"},
	)
)

func observePublish(topic string, seconds float64, err error) {
	publishSeconds.WithLabelValues(topic).Observe(seconds)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	publishedTotal.WithLabelValues(topic, outcome).Inc()
}
