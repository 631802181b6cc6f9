package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(progressEventsTotal, progressSubscribers) }

var progressEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "progress_events_published_total",
		Help: "Progress events published to the bus, labeled by event type.",
	},
	[]string{"type"},
)

var progressSubscribers = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "progress_subscribers",
		Help: "Currently connected progress event subscribers.",
	},
)

func IncProgressEvent(typ string) { progressEventsTotal.WithLabelValues(norm(typ)).Inc() }
func AddSubscribers(n int)        { progressSubscribers.Add(float64(n)) }
