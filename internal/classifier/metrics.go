package classifier

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signd",
			Subsystem: "classifier",
			Name:      "predictions_total",
			Help:      "Total predictions by outcome (ok, error, too_busy)",
		},
		[]string{"outcome"},
	)

	inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "signd",
			Subsystem: "classifier",
			Name:      "inference_duration_seconds",
			Help:      "Duration of model forward passes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, inferenceDuration)
}

func observeInference(d time.Duration) {
	inferenceDuration.Observe(d.Seconds())
}
