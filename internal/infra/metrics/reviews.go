package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(interviewsTotal, overridesTotal, feedbackTotal) }

var interviewsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "interviews_total",
		Help: "Interview lifecycle operations, labeled by resulting status.",
	},
	[]string{"status"},
)

var overridesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bucket_overrides_total",
		Help: "Reviewer bucket overrides, labeled by target bucket.",
	},
	[]string{"bucket"},
)

var feedbackTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "feedback_entries_total",
		Help: "Reviewer feedback entries, labeled by feedback type.",
	},
	[]string{"type"},
)

func IncInterview(status string) { interviewsTotal.WithLabelValues(norm(status)).Inc() }
func IncOverride(bucket string)  { overridesTotal.WithLabelValues(norm(bucket)).Inc() }
func IncFeedback(typ string)     { feedbackTotal.WithLabelValues(norm(typ)).Inc() }
