package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(runJobsProcessedTotal, runJobsReapedTotal) }

var (
	runJobsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "run_jobs_processed_total",
			Help: "Total number of run jobs processed, labeled by final status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	runJobsReapedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "run_jobs_reaped_total",
			Help: "Run jobs force-failed after being stuck in processing.",
		},
	)
)

func IncRunJob(status string) {
	runJobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func AddReapedJobs(n int) {
	runJobsReapedTotal.Add(float64(n))
}
