package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	serviceTask = "task"
	serviceTag  = "tag"

	statusSuccess = "success"
	statusError   = "error"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskmanager",
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Total number of service operations by outcome",
		},
		[]string{"service", "operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taskmanager",
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	tagsPerTask = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "taskmanager",
			Subsystem: "service",
			Name:      "task_tags_count",
			Help:      "Number of tags assigned to a task on tag replacement",
			Buckets:   []float64{0, 1, 2, 5, 10, 25},
		},
	)
)

// observe records the outcome of an operation started at start. It is meant
// to be deferred with a pointer to the named error result.
func observe(service, operation string, start time.Time, err *error) {
	status := statusSuccess
	if *err != nil {
		status = statusError
	}
	operationsTotal.WithLabelValues(service, operation, status).Inc()
	operationDuration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}
