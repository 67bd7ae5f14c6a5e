package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		providerCallsLatencyMs,
		providerPromptTokens,
		providerRateLimited,
	)
}

var (
	providerCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_calls_latency_ms",
			Help:    "Provider API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"provider", "op", "success"},
	)

	providerPromptTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_prompt_tokens",
			Help: "Sum of prompt tokens submitted per provider/model.",
		},
		[]string{"provider", "model"},
	)

	providerRateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_rate_limited_total",
			Help: "Count of provider calls blocked by the local rate limiter.",
		},
		[]string{"provider"},
	)
)

func ObserveProviderCall(provider, op string, latencyMs int, success bool) {
	providerCallsLatencyMs.WithLabelValues(norm(provider), norm(op), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func AddPromptTokens(provider, model string, tokens int) {
	providerPromptTokens.WithLabelValues(norm(provider), norm(model)).Add(float64(tokens))
}

func IncRateLimited(provider string) {
	providerRateLimited.WithLabelValues(norm(provider)).Inc()
}
