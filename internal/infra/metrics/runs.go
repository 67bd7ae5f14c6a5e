package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		runOutcomesTotal,
		runPollAttempts,
		runDurationMs,
	)
}

var (
	runOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "run_outcomes_total",
			Help: "Run poll outcomes by kind (success/failure/action_required/timeout/cancelled/transport_error).",
		},
		[]string{"kind"},
	)

	runPollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "run_poll_attempts",
			Help:    "Status fetches consumed per completed poll.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 30},
		},
	)

	runDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "run_duration_ms",
			Help:    "Wall time from run start to poll outcome in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
	)
)

func IncRunOutcome(kind string) {
	runOutcomesTotal.WithLabelValues(norm(kind)).Inc()
}

func ObserveRun(attempts int, durationMs int) {
	runPollAttempts.Observe(float64(attempts))
	runDurationMs.Observe(float64(durationMs))
}
