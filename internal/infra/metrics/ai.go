package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		completionTokensIn,
		completionTokensOut,
		completionLatencyMs,
	)
}

var (
	completionTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_tokens_in",
			Help: "Sum of prompt (input) tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	completionTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_tokens_out",
			Help: "Sum of reply (output) tokens per provider/model.",
		},
		[]string{"provider", "model"},
	)

	completionLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "model", "success"},
	)
)

func ObserveCompletion(provider, model string, tokensIn, tokensOut, latencyMs int, success bool) {
	lbl := []string{norm(provider), norm(model)}
	completionTokensIn.WithLabelValues(lbl...).Add(float64(tokensIn))
	completionTokensOut.WithLabelValues(lbl...).Add(float64(tokensOut))
	completionLatencyMs.WithLabelValues(norm(provider), norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
