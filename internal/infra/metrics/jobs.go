package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, resumesProcessedTotal) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analysis_jobs_processed_total",
		Help: "Total number of analysis jobs finished, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var resumesProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resumes_processed_total",
		Help: "Total number of resumes processed, labeled by outcome.",
	},
	[]string{"outcome"}, // 'analyzed', 'skipped'
)

func IncJobProcessed(status string)     { jobsProcessedTotal.WithLabelValues(norm(status)).Inc() }
func IncResumeProcessed(outcome string) { resumesProcessedTotal.WithLabelValues(norm(outcome)).Inc() }
