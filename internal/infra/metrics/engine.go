package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(engineCallLatencyMs, engineCacheHits) }

var engineCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "engine_call_latency_ms",
		Help:    "Analysis engine call latency distribution in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
	},
	[]string{"provider", "model", "success"},
)

var engineCacheHits = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "engine_cache_total",
		Help: "Analysis cache lookups by result.",
	},
	[]string{"result"}, // 'hit', 'miss'
)

func ObserveEngineCall(provider, model string, latencyMs int, success bool) {
	engineCallLatencyMs.WithLabelValues(norm(provider), norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncEngineCache(result string) { engineCacheHits.WithLabelValues(norm(result)).Inc() }
