package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	assignmentsCreated prometheus.Counter
	submissionsGraded  prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizdesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quizdesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quizdesk_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		assignmentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizdesk_assignments_created_total",
			Help: "Total number of assignment documents created by fan-out.",
		})

		submissionsGraded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizdesk_submissions_graded_total",
			Help: "Total number of assignment submissions graded.",
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, assignmentsCreated, submissionsGraded)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AssignmentsCreated exposes the fan-out counter.
func AssignmentsCreated() prometheus.Counter {
	RegisterMetrics()
	return assignmentsCreated
}

// SubmissionsGraded exposes the grading counter.
func SubmissionsGraded() prometheus.Counter {
	RegisterMetrics()
	return submissionsGraded
}
